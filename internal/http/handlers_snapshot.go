package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"budget/internal/core"
	applog "budget/internal/log"
)

// maxImportSize caps snapshot uploads at 10 MiB.
const maxImportSize = 10 << 20

// handleExport streams the full state as a JSON download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := s.svc.ExportAll()

	filename := fmt.Sprintf("budget-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export encoding failed", "error", err)
	}
}

// handleImport replaces the whole state from an uploaded snapshot.
// Accepts either a multipart upload with a "file" field or a raw JSON
// body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	body, err := importBody(r)
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	var snap core.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Invalid snapshot: not valid JSON")
		return
	}
	if snap.Version > core.SnapshotVersion {
		writeErrorFragment(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Unsupported snapshot version %d", snap.Version))
		return
	}

	if err := s.svc.ImportAll(r.Context(), snap); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Import rejected", "error", err)
		writeErrorFragment(w, statusForError(err), err.Error())
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "state:changed")
	writeSuccessFragment(w, fmt.Sprintf("Imported %d categories and %d expenses",
		len(snap.Categories), len(snap.Expenses)))
}

func importBody(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxImportSize))
	}
	return io.ReadAll(io.LimitReader(r.Body, maxImportSize))
}
