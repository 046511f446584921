package invoice

import (
	"fmt"
	"sort"
	"strings"
)

// Directory is the client address book, used to autofill addresses on
// later invoices for the same client
type Directory struct {
	store      Store
	idGen      IDGenerator
	timeSource TimeSource
}

// NewDirectory creates a Directory backed by store
func NewDirectory(store Store, idGen IDGenerator, timeSource TimeSource) *Directory {
	return &Directory{store: store, idGen: idGen, timeSource: timeSource}
}

// Upsert records that an invoice referenced the named client. Names are
// matched case-insensitively on the trimmed form; the stored casing comes
// from the first insert. An empty incoming address never blanks a stored
// one. The list is kept sorted by last-seen descending and persisted on
// every mutation.
func (d *Directory) Upsert(name, address string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	clients, err := d.store.LoadClients()
	if err != nil {
		return fmt.Errorf("loading clients: %w", err)
	}

	now := d.timeSource.Now().UnixMilli()
	found := false
	for _, client := range clients {
		if strings.EqualFold(client.Name, trimmed) {
			client.LastSeen = now
			if address != "" {
				client.Address = address
			}
			found = true
			break
		}
	}
	if !found {
		clients = append(clients, &Client{
			ID:       d.idGen.Generate(),
			Name:     trimmed,
			Address:  address,
			LastSeen: now,
		})
	}

	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].LastSeen > clients[j].LastSeen
	})

	if err := d.store.SaveClients(clients); err != nil {
		return fmt.Errorf("saving clients: %w", err)
	}
	return nil
}

// Suggest returns the client whose name matches exactly, ignoring case and
// surrounding whitespace, or nil when there is no such client
func (d *Directory) Suggest(name string) (*Client, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}
	clients, err := d.store.LoadClients()
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	for _, client := range clients {
		if strings.EqualFold(client.Name, trimmed) {
			return client, nil
		}
	}
	return nil, nil
}

// List returns all clients, most recently seen first
func (d *Directory) List() ([]*Client, error) {
	clients, err := d.store.LoadClients()
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	return clients, nil
}
