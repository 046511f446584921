package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hanifgol/invoice-keeper/internal/export"
	"github.com/hanifgol/invoice-keeper/internal/extraction"
	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a successful JSON response
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// draftResponse is the full view of the current working session
type draftResponse struct {
	Invoice   *invoice.Invoice `json:"invoice"`
	State     invoice.State    `json:"state"`
	LastError string           `json:"lastError,omitempty"`
	EditMode  bool             `json:"editMode"`
}

func (s *Server) draftResponse() draftResponse {
	return draftResponse{
		Invoice:   s.service.Draft(),
		State:     s.service.State(),
		LastError: s.service.LastError(),
		EditMode:  s.service.EditMode(),
	}
}

// handleGetDraft returns the current draft and lifecycle state
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleUpdateField sets one top-level draft field
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.service.UpdateField(req.Field, req.Value); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleAddItem appends a placeholder line item
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	s.service.AddItem()
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleSetItemField sets one field of one line item
func (s *Server) handleSetItemField(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, "Invalid item index", http.StatusBadRequest)
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.service.SetItemField(index, req.Field, req.Value); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleRemoveItem deletes a line item by position
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, "Invalid item index", http.StatusBadRequest)
		return
	}
	s.service.RemoveItem(index)
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleEnterEdit snapshots the draft for cancellable editing
func (s *Server) handleEnterEdit(w http.ResponseWriter, r *http.Request) {
	s.service.EnterEditMode()
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleCancelEdit restores the pre-edit snapshot
func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.service.CancelEditMode()
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleCommitEdit keeps the edits and leaves edit mode
func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	s.service.CommitEditMode()
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleRegenerateNumber replaces the draft's proposed invoice number
func (s *Server) handleRegenerateNumber(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RegenerateNumber(); err != nil {
		slog.Error("Error regenerating invoice number", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleSaveDraft archives the current draft without starting a new one
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	entry, err := s.service.SaveDraft()
	if err != nil {
		slog.Error("Error saving draft", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if entry == nil {
		jsonError(w, "Nothing to save: the draft is empty", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleGenerate runs the extraction over uploaded trip notes
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	// 50MB cap to handle high-resolution phone photos and voice notes
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize it."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	in := extraction.Input{Text: r.FormValue("notes")}

	image, err := formMedia(r, "image")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	in.Image = image

	audio, err := formMedia(r, "audio")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	in.Audio = audio

	if err := s.service.Generate(r.Context(), in); err != nil {
		switch {
		case errors.Is(err, invoice.ErrGenerationInFlight):
			jsonError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, extraction.ErrNoInput):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			jsonError(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// formMedia reads one optional uploaded file, nil when the part is absent
func formMedia(r *http.Request, field string) (*extraction.Media, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".pdf":
			contentType = "application/pdf"
		case ".heic":
			contentType = "image/heic"
		case ".heif":
			contentType = "image/heif"
		case ".webm":
			contentType = "audio/webm"
		case ".mp3":
			contentType = "audio/mpeg"
		case ".m4a":
			contentType = "audio/mp4"
		default:
			contentType = "application/octet-stream"
		}
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	return &extraction.Media{Data: data, MIME: contentType}, nil
}

// handleNewInvoice finalizes the session and starts a fresh draft
func (s *Server) handleNewInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.service.NewInvoice(); err != nil {
		slog.Error("Error starting new invoice", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleListArchive returns archived invoices, filtered by the q parameter
func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Archive().Search(r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("Error listing archive", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleDeleteArchived removes one archived invoice
func (s *Server) handleDeleteArchived(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Archive().Remove(r.PathValue("id")); err != nil {
		slog.Error("Error deleting archived invoice", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateStatus changes one archived invoice's payment status
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.service.Archive().UpdateStatus(r.PathValue("id"), invoice.Status(req.Status)); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadArchived replaces the draft with an archived invoice
func (s *Server) handleLoadArchived(w http.ResponseWriter, r *http.Request) {
	if err := s.service.LoadArchived(r.PathValue("id")); err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			jsonError(w, "Invoice not found", http.StatusNotFound)
			return
		}
		slog.Error("Error loading archived invoice", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleListClients returns the client address book
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.service.Clients().List()
	if err != nil {
		slog.Error("Error listing clients", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// handleGetProfile returns the company profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.service.Profile()
	if err != nil {
		slog.Error("Error loading profile", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleSaveProfile overwrites the company profile
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile invoice.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.service.SaveProfile(&profile); err != nil {
		slog.Error("Error saving profile", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, &profile)
}

// handleResetProfile restores the default profile
func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.service.ResetProfile()
	if err != nil {
		slog.Error("Error resetting profile", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleDashboard returns revenue totals and top clients
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.DashboardStats()
	if err != nil {
		slog.Error("Error computing dashboard stats", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleExportBackup downloads all persisted records as one JSON document
func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.service.Backup()
	if err != nil {
		slog.Error("Error exporting backup", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-keeper-backup.json"`)
	writeJSON(w, http.StatusOK, backup)
}

// handleRestoreBackup validates and restores a backup document
func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	if err := s.service.Restore(data); err != nil {
		if errors.Is(err, invoice.ErrInvalidBackup) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Error restoring backup", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleExportDraft downloads the current draft in the requested format
func (s *Server) handleExportDraft(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, s.service.Draft())
}

// handleExportArchived downloads an archived invoice in the requested format
func (s *Server) handleExportArchived(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Archive().Load(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			jsonError(w, "Invoice not found", http.StatusNotFound)
			return
		}
		slog.Error("Error loading archived invoice", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.serveExport(w, r, data)
}

// serveExport renders one invoice into the format named in the path and
// writes it as a download
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, inv *invoice.Invoice) {
	format := strings.ToLower(r.PathValue("format"))

	profile, err := s.service.Profile()
	if err != nil {
		slog.Error("Error loading profile", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "csv":
		data, err = export.CSV(inv)
		contentType = "text/csv; charset=utf-8"
	case "pdf":
		data, err = export.PDF(inv, profile)
		contentType = "application/pdf"
	case "docx":
		data, err = export.DOCX(inv, profile)
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "xlsx":
		data, err = export.XLSX(inv)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		jsonError(w, "Unknown export format: "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("Error rendering export", "format", format, "error", err)
		jsonError(w, "Error rendering export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(inv, format)+`"`)
	w.Write(data)
}
