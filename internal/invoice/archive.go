package invoice

import (
	"fmt"
	"sort"
	"strings"
)

// Manager owns the archive of finalized invoices
type Manager struct {
	store      Store
	clients    *Directory
	idGen      IDGenerator
	timeSource TimeSource
}

// NewManager creates a Manager backed by store
func NewManager(store Store, clients *Directory, idGen IDGenerator, timeSource TimeSource) *Manager {
	return &Manager{store: store, clients: clients, idGen: idGen, timeSource: timeSource}
}

// Archive snapshots a draft into the archive. Empty drafts (no items and no
// client name) are skipped and return nil. The snapshot is a deep copy, so
// later edits to the draft never reach the archive. The draft's client is
// upserted into the address book as a side effect.
func (m *Manager) Archive(draft *Invoice) (*Archived, error) {
	if draft.Empty() {
		return nil, nil
	}

	if err := m.clients.Upsert(draft.ClientName, draft.ClientAddress); err != nil {
		return nil, fmt.Errorf("upserting client: %w", err)
	}

	archive, err := m.store.LoadArchive()
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}

	entry := &Archived{
		ID:        m.idGen.Generate(),
		CreatedAt: m.timeSource.Now().UnixMilli(),
		Data:      draft.Clone(),
	}

	// Most recent first
	archive = append([]*Archived{entry}, archive...)
	if err := m.store.SaveArchive(archive); err != nil {
		return nil, fmt.Errorf("saving archive: %w", err)
	}
	return entry, nil
}

// Remove deletes an archived invoice by id
func (m *Manager) Remove(id string) error {
	archive, err := m.store.LoadArchive()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}
	filtered := archive[:0]
	for _, entry := range archive {
		if entry.ID != id {
			filtered = append(filtered, entry)
		}
	}
	if err := m.store.SaveArchive(filtered); err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}
	return nil
}

// UpdateStatus replaces the status of an archived invoice, leaving every
// other field of the snapshot untouched. Unknown ids are a no-op.
func (m *Manager) UpdateStatus(id string, status Status) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status: %q", status)
	}
	archive, err := m.store.LoadArchive()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}
	changed := false
	for _, entry := range archive {
		if entry.ID == id {
			entry.Data.Status = status
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	if err := m.store.SaveArchive(archive); err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}
	return nil
}

// Load returns a copy of the archived invoice data for transplantation back
// into the draft engine
func (m *Manager) Load(id string) (*Invoice, error) {
	archive, err := m.store.LoadArchive()
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	for _, entry := range archive {
		if entry.ID == id {
			return entry.Data.Clone(), nil
		}
	}
	return nil, fmt.Errorf("archived invoice %s: %w", id, ErrNotFound)
}

// List returns the archive, most recent first
func (m *Manager) List() ([]*Archived, error) {
	return m.Search("")
}

// Search filters the archive by a case-insensitive substring match against
// client name, invoice number and invoice date, sorted by archival time
// descending
func (m *Manager) Search(query string) ([]*Archived, error) {
	archive, err := m.store.LoadArchive()
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}

	q := strings.ToLower(query)
	results := make([]*Archived, 0, len(archive))
	for _, entry := range archive {
		if q == "" ||
			strings.Contains(strings.ToLower(entry.Data.ClientName), q) ||
			strings.Contains(strings.ToLower(entry.Data.InvoiceNumber), q) ||
			strings.Contains(strings.ToLower(entry.Data.InvoiceDate), q) {
			results = append(results, entry)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt > results[j].CreatedAt
	})
	return results, nil
}
