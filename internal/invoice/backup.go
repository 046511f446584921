package invoice

import (
	"encoding/json"
	"fmt"
	"time"
)

// Backup is the union of the four persisted records, exported as one JSON
// document
type Backup struct {
	ExportedAt string      `json:"exportedAt"`
	Profile    *Profile    `json:"profile"`
	Archive    []*Archived `json:"archive"`
	Clients    []*Client   `json:"clients"`
	Sequence   int         `json:"sequence"`
}

// ExportBackup collects all four records into a single document
func ExportBackup(store Store, timeSource TimeSource) (*Backup, error) {
	profile, err := store.LoadProfile()
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	archive, err := store.LoadArchive()
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	clients, err := store.LoadClients()
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	sequence, err := store.LoadSequence()
	if err != nil {
		return nil, fmt.Errorf("loading sequence: %w", err)
	}

	return &Backup{
		ExportedAt: timeSource.Now().Format(time.RFC3339),
		Profile:    profile,
		Archive:    archive,
		Clients:    clients,
		Sequence:   sequence,
	}, nil
}

// RestoreBackup parses and validates a backup document, then overwrites all
// four records. A malformed document is rejected before anything is
// written, so a failed restore never leaves the store half-replaced.
func RestoreBackup(store Store, data []byte) error {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if backup.Profile == nil {
		return fmt.Errorf("%w: missing profile", ErrInvalidBackup)
	}
	if backup.Archive == nil {
		backup.Archive = []*Archived{}
	}
	if backup.Clients == nil {
		backup.Clients = []*Client{}
	}
	for _, entry := range backup.Archive {
		if entry == nil || entry.Data == nil || entry.ID == "" {
			return fmt.Errorf("%w: malformed archive entry", ErrInvalidBackup)
		}
	}

	if err := store.SaveProfile(backup.Profile); err != nil {
		return fmt.Errorf("restoring profile: %w", err)
	}
	if err := store.SaveArchive(backup.Archive); err != nil {
		return fmt.Errorf("restoring archive: %w", err)
	}
	if err := store.SaveClients(backup.Clients); err != nil {
		return fmt.Errorf("restoring clients: %w", err)
	}
	if err := store.SaveSequence(backup.Sequence); err != nil {
		return fmt.Errorf("restoring sequence: %w", err)
	}
	return nil
}
