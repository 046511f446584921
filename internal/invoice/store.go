package invoice

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.etcd.io/bbolt"
)

const (
	recordsBucket = "records"

	profileKey  = "profile"
	archiveKey  = "archive"
	clientsKey  = "clients"
	sequenceKey = "sequence"
)

// Store persists the four application records. Each record is read and
// written independently; absent records fall back to their documented
// defaults so a fresh installation needs no setup step.
type Store interface {
	// LoadProfile returns the saved company profile merged over the
	// defaults, or the defaults when none has been saved
	LoadProfile() (*Profile, error)

	// SaveProfile overwrites the company profile wholesale
	SaveProfile(profile *Profile) error

	// ResetProfile removes the saved profile so defaults apply again
	ResetProfile() error

	// LoadArchive returns the archived invoices, most recent first
	LoadArchive() ([]*Archived, error)

	// SaveArchive replaces the archive list
	SaveArchive(archive []*Archived) error

	// LoadClients returns the client address book
	LoadClients() ([]*Client, error)

	// SaveClients replaces the client address book
	SaveClients(clients []*Client) error

	// LoadSequence returns the invoice number counter, 0 if unset
	LoadSequence() (int, error)

	// SaveSequence persists the invoice number counter
	SaveSequence(value int) error

	// Close closes the store
	Close() error
}

// BoltStore implements Store on a single bbolt file
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the store at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// get reads a raw record value, nil if absent
func (b *BoltStore) get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(recordsBucket)).Get([]byte(key))
		if data != nil {
			out = make([]byte, len(data))
			copy(out, data)
		}
		return nil
	})
	return out, err
}

// put writes a raw record value
func (b *BoltStore) put(key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(recordsBucket)).Put([]byte(key), value)
	})
}

// LoadProfile returns the saved profile merged over the defaults
func (b *BoltStore) LoadProfile() (*Profile, error) {
	data, err := b.get(profileKey)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	profile := DefaultProfile()
	if data == nil {
		return profile, nil
	}
	// Unmarshal over the defaults so fields added after the profile was
	// saved keep their default values
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}
	return profile, nil
}

// SaveProfile overwrites the company profile
func (b *BoltStore) SaveProfile(profile *Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	return b.put(profileKey, data)
}

// ResetProfile removes the saved profile
func (b *BoltStore) ResetProfile() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(recordsBucket)).Delete([]byte(profileKey))
	})
}

// LoadArchive returns the archived invoices
func (b *BoltStore) LoadArchive() ([]*Archived, error) {
	data, err := b.get(archiveKey)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	archive := make([]*Archived, 0)
	if data == nil {
		return archive, nil
	}
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("unmarshaling archive: %w", err)
	}
	return archive, nil
}

// SaveArchive replaces the archive list
func (b *BoltStore) SaveArchive(archive []*Archived) error {
	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("marshaling archive: %w", err)
	}
	return b.put(archiveKey, data)
}

// LoadClients returns the client address book
func (b *BoltStore) LoadClients() ([]*Client, error) {
	data, err := b.get(clientsKey)
	if err != nil {
		return nil, fmt.Errorf("reading clients: %w", err)
	}
	clients := make([]*Client, 0)
	if data == nil {
		return clients, nil
	}
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("unmarshaling clients: %w", err)
	}
	return clients, nil
}

// SaveClients replaces the client address book
func (b *BoltStore) SaveClients(clients []*Client) error {
	data, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("marshaling clients: %w", err)
	}
	return b.put(clientsKey, data)
}

// LoadSequence returns the invoice number counter, 0 if unset
func (b *BoltStore) LoadSequence() (int, error) {
	data, err := b.get(sequenceKey)
	if err != nil {
		return 0, fmt.Errorf("reading sequence: %w", err)
	}
	if data == nil {
		return 0, nil
	}
	value, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("parsing sequence: %w", err)
	}
	return value, nil
}

// SaveSequence persists the invoice number counter
func (b *BoltStore) SaveSequence(value int) error {
	return b.put(sequenceKey, []byte(strconv.Itoa(value)))
}

// Close closes the store
func (b *BoltStore) Close() error {
	return b.db.Close()
}
