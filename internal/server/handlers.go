package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/archlens/archlens/internal/analyzer"
	"github.com/archlens/archlens/internal/archive"
	"github.com/archlens/archlens/internal/store"
)

// maxUploadSize bounds the uploaded archive itself (128 MB). Extracted
// entries are bounded separately by the archive package.
const maxUploadSize int64 = 128 << 20

// handleAnalyze accepts a multipart upload ("archive" field, zip or
// tar.gz), extracts it into a scratch directory, runs the pipeline, and
// persists the result. The scratch directory is removed on every path.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing upload: %v", err))
		return
	}

	file, header, err := r.FormFile("archive")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing archive field")
		return
	}
	defer file.Close()

	projectName := r.FormValue("project_name")
	if projectName == "" {
		projectName = trimArchiveExt(header.Filename)
	}

	workDir := s.cfg.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	scratch := filepath.Join(workDir, "archlens-"+uuid.New().String())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "creating scratch directory")
		return
	}
	defer os.RemoveAll(scratch)

	archivePath := filepath.Join(scratch, header.Filename)
	if err := saveUpload(archivePath, file); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving upload: %v", err))
		return
	}

	projectDir := filepath.Join(scratch, "project")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "creating project directory")
		return
	}
	if err := archive.Extract(archivePath, projectDir); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("extracting archive: %v", err))
		return
	}

	res, err := analyzer.Analyze(r.Context(), projectDir, analyzer.Options{
		ProjectName: projectName,
		Scan:        s.cfg.Scan,
		Enricher:    s.enricher,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	runID, err := s.store.SaveRun(r.Context(), res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving run: %v", err))
		return
	}

	s.events.broadcast(event{
		Type:        "run_completed",
		RunID:       runID,
		ProjectName: res.ProjectName,
		Complexity:  string(res.Summary.Complexity),
		Services:    res.Summary.TotalServices,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"run_id": runID,
		"result": res,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("listing runs: %v", err))
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRunReport renders the stored run as an HTML report.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(analyzer.RenderMarkdown(res)), &buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("rendering report: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func saveUpload(path string, src io.Reader) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

func trimArchiveExt(name string) string {
	for _, ext := range []string{".tar.gz", ".tgz", ".zip"} {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
