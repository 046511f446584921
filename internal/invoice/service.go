package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/hanifgol/invoice-keeper/internal/extraction"
)

// State is the lifecycle state of the generation workflow
type State string

const (
	StateIdle       State = "IDLE"
	StateProcessing State = "PROCESSING"
	StateSuccess    State = "SUCCESS"
	StateError      State = "ERROR"
)

// IDGenerator generates unique ids for archive entries and clients
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates ids using UnixNano timestamps
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service owns the single current draft and drives the generate/edit/
// archive workflow. All mutations go through it; there is exactly one
// extraction in flight at a time.
type Service struct {
	mu         sync.Mutex
	store      Store
	extractor  extraction.Extractor
	clients    *Directory
	archive    *Manager
	allocator  *Allocator
	timeSource TimeSource

	state     State
	lastError string
	draft     *Invoice
	backup    *Invoice
	editMode  bool
}

// NewService creates a Service with default id generator and time source
func NewService(store Store, extractor extraction.Extractor) (*Service, error) {
	return NewServiceWithDeps(store, extractor, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(store Store, extractor extraction.Extractor, idGen IDGenerator, timeSrc TimeSource) (*Service, error) {
	clients := NewDirectory(store, idGen, timeSrc)
	s := &Service{
		store:      store,
		extractor:  extractor,
		clients:    clients,
		archive:    NewManager(store, clients, idGen, timeSrc),
		allocator:  NewAllocator(store),
		timeSource: timeSrc,
		state:      StateIdle,
	}
	draft, err := s.newDraft()
	if err != nil {
		return nil, err
	}
	s.draft = draft
	return s, nil
}

// Clients returns the client directory
func (s *Service) Clients() *Directory { return s.clients }

// Archive returns the archive manager
func (s *Service) Archive() *Manager { return s.archive }

// newDraft builds a fresh draft with the next proposed invoice number and
// today's date
func (s *Service) newDraft() (*Invoice, error) {
	number, err := s.allocator.PeekNext()
	if err != nil {
		return nil, fmt.Errorf("peeking next invoice number: %w", err)
	}
	return &Invoice{
		InvoiceNumber:  number,
		InvoiceDate:    s.timeSource.Now().Format("2006-01-02"),
		Items:          []Item{},
		ClosingMessage: DefaultClosingMessage,
		Status:         StatusPending,
	}, nil
}

// Draft returns a copy of the current draft
func (s *Service) Draft() *Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// State returns the current lifecycle state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the message from the last failed extraction, empty
// when there is none
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// EditMode reports whether line-item edit mode is active
func (s *Service) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// UpdateField replaces one top-level draft field. No validation happens
// here; that belongs to the presentation boundary.
func (s *Service) UpdateField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case "clientName":
		s.draft.ClientName = value
	case "clientAddress":
		s.draft.ClientAddress = value
	case "invoiceDate":
		s.draft.InvoiceDate = value
	case "invoiceNumber":
		s.draft.InvoiceNumber = value
	case "closingMessage":
		s.draft.ClosingMessage = value
	case "status":
		s.draft.Status = Status(value)
	default:
		return fmt.Errorf("unknown invoice field: %q", field)
	}
	return nil
}

// SetItemField mutates one field of one line item, then recomputes the
// totals. Non-numeric amounts coerce to 0. Out-of-range indexes are a
// no-op; draft operations never fail on empty collections.
func (s *Service) SetItemField(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.draft.Items) {
		return nil
	}

	item := &s.draft.Items[index]
	switch field {
	case "date":
		item.Date = value
	case "description":
		item.Description = value
	case "timeIn":
		item.TimeIn = value
	case "timeOut":
		item.TimeOut = value
	case "amount":
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			amount = 0
		}
		item.Amount = amount
	default:
		return fmt.Errorf("unknown item field: %q", field)
	}

	total := RecomputeTotals(s.draft.Items)
	s.draft.Subtotal = total
	s.draft.TotalAmount = total
	return nil
}

// AddItem appends a placeholder line defaulted to the draft's invoice date.
// A zero amount leaves the totals unchanged, so no recompute is needed.
func (s *Service) AddItem() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Items = append(s.draft.Items, Item{
		Date:        s.draft.InvoiceDate,
		Description: "New Trip",
	})
}

// RemoveItem deletes a line item by position and recomputes the totals.
// Out-of-range indexes are a no-op.
func (s *Service) RemoveItem(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.draft.Items) {
		return
	}
	s.draft.Items = append(s.draft.Items[:index], s.draft.Items[index+1:]...)

	total := RecomputeTotals(s.draft.Items)
	s.draft.Subtotal = total
	s.draft.TotalAmount = total
}

// EnterEditMode snapshots the draft so edits can be discarded. Entering
// while already in edit mode keeps the original snapshot.
func (s *Service) EnterEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editMode {
		return
	}
	s.backup = s.draft.Clone()
	s.editMode = true
}

// CancelEditMode restores the draft from the snapshot, discarding every
// edit made since edit mode was entered
func (s *Service) CancelEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editMode {
		return
	}
	if s.backup != nil {
		s.draft = s.backup
	}
	s.backup = nil
	s.editMode = false
}

// CommitEditMode keeps the edits and discards the snapshot
func (s *Service) CommitEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backup = nil
	s.editMode = false
}

// RegenerateNumber replaces the draft's invoice number with the next
// proposed one
func (s *Service) RegenerateNumber() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	number, err := s.allocator.PeekNext()
	if err != nil {
		return err
	}
	s.draft.InvoiceNumber = number
	return nil
}

// Generate runs the extraction and replaces the draft with the result. Only
// one extraction may be in flight; a second call returns
// ErrGenerationInFlight. On failure the draft is left exactly as it was and
// the error message is retained for display.
func (s *Service) Generate(ctx context.Context, in extraction.Input) error {
	s.mu.Lock()
	if s.state == StateProcessing {
		s.mu.Unlock()
		return ErrGenerationInFlight
	}
	if in.Empty() {
		s.mu.Unlock()
		return extraction.ErrNoInput
	}

	in.Hint = extraction.Hint{
		ClientName:    s.draft.ClientName,
		InvoiceNumber: s.draft.InvoiceNumber,
		InvoiceDate:   s.draft.InvoiceDate,
	}

	s.state = StateProcessing
	s.lastError = ""
	s.editMode = false
	s.backup = nil
	s.mu.Unlock()

	result, err := s.extractor.Extract(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		slog.Error("Extraction failed", "error", err)
		s.state = StateError
		s.lastError = err.Error()
		return err
	}

	draft := resultToInvoice(result)

	// Backfill the address from the directory when the notes named a known
	// client but gave no address
	if draft.ClientAddress == "" {
		if client, lookupErr := s.clients.Suggest(draft.ClientName); lookupErr != nil {
			slog.Warn("Client lookup failed", "error", lookupErr)
		} else if client != nil {
			draft.ClientAddress = client.Address
		}
	}

	s.draft = draft
	s.state = StateSuccess
	return nil
}

// resultToInvoice maps an extraction result onto the invoice model
func resultToInvoice(result *extraction.Result) *Invoice {
	items := make([]Item, len(result.Items))
	for i, item := range result.Items {
		items[i] = Item{
			Date:        item.Date,
			Description: item.Description,
			TimeIn:      item.TimeIn,
			TimeOut:     item.TimeOut,
			Amount:      item.Amount,
		}
	}
	return &Invoice{
		InvoiceNumber:  result.InvoiceNumber,
		ClientName:     result.ClientName,
		ClientAddress:  result.ClientAddress,
		InvoiceDate:    result.InvoiceDate,
		Items:          items,
		Subtotal:       result.Subtotal,
		TotalAmount:    result.TotalAmount,
		ClosingMessage: result.ClosingMessage,
		Status:         Status(result.Status),
	}
}

// SaveDraft archives the current draft without starting a new one. Empty
// drafts are skipped and return nil.
func (s *Service) SaveDraft() (*Archived, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archive.Archive(s.draft)
}

// NewInvoice finalizes the session: a non-trivial draft is archived and the
// number allocator committed, then the draft is replaced with a fresh one
// and the lifecycle returns to IDLE
func (s *Service) NewInvoice() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.draft.Items) > 0 || s.draft.TotalAmount > 0 {
		if _, err := s.archive.Archive(s.draft); err != nil {
			return fmt.Errorf("archiving draft: %w", err)
		}
	}
	if s.draft.InvoiceNumber != "" {
		if err := s.allocator.Commit(s.draft.InvoiceNumber); err != nil {
			return fmt.Errorf("committing invoice number: %w", err)
		}
	}

	draft, err := s.newDraft()
	if err != nil {
		return err
	}
	s.draft = draft
	s.state = StateIdle
	s.lastError = ""
	s.editMode = false
	s.backup = nil
	return nil
}

// Profile returns the stored company profile
func (s *Service) Profile() (*Profile, error) {
	return s.store.LoadProfile()
}

// SaveProfile overwrites the company profile
func (s *Service) SaveProfile(profile *Profile) error {
	return s.store.SaveProfile(profile)
}

// ResetProfile discards the saved profile and returns the defaults
func (s *Service) ResetProfile() (*Profile, error) {
	if err := s.store.ResetProfile(); err != nil {
		return nil, err
	}
	return s.store.LoadProfile()
}

// DashboardStats aggregates the archive into the business overview
func (s *Service) DashboardStats() (Stats, error) {
	archive, err := s.store.LoadArchive()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(archive, s.timeSource.Now()), nil
}

// Backup exports all persisted records as one document
func (s *Service) Backup() (*Backup, error) {
	return ExportBackup(s.store, s.timeSource)
}

// Restore replaces all persisted records from a backup document and starts
// a fresh draft, since the restored sequence invalidates the proposed
// invoice number
func (s *Service) Restore(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := RestoreBackup(s.store, data); err != nil {
		return err
	}
	draft, err := s.newDraft()
	if err != nil {
		return err
	}
	s.draft = draft
	s.state = StateIdle
	s.lastError = ""
	s.editMode = false
	s.backup = nil
	return nil
}

// LoadArchived replaces the current draft with an archived invoice's data.
// This is a full replacement, not a merge; edit mode is cleared.
func (s *Service) LoadArchived(id string) error {
	data, err := s.archive.Load(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = data
	s.editMode = false
	s.backup = nil
	return nil
}
