package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DataFileHandler serves the raw state dataset and supporting documents
// from a local data directory. Both endpoints are public.
type DataFileHandler struct {
	dir string
	log *slog.Logger
}

// snfDataFile is the canonical state dataset filename within the data dir.
const snfDataFile = "snf_facilities.csv"

// NewDataFileHandler creates a DataFileHandler rooted at dir.
func NewDataFileHandler(dir string, log *slog.Logger) *DataFileHandler {
	return &DataFileHandler{dir: dir, log: log}
}

// SNFData handles GET /api/snf-data.
func (h *DataFileHandler) SNFData(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, snfDataFile, "text/csv")
}

// Doc handles GET /api/docs/{filename}.
func (h *DataFileHandler) Doc(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	h.serve(w, r, filepath.Join("docs", name), "")
}

func (h *DataFileHandler) serve(w http.ResponseWriter, r *http.Request, name, contentType string) {
	// Resolve inside the data dir only; reject traversal out of it.
	path := filepath.Join(h.dir, filepath.Clean("/"+name))
	rel, err := filepath.Rel(h.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	http.ServeFile(w, r, path)
}
