package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/forensint/celltrace/internal/archive"
	"github.com/forensint/celltrace/internal/config"
	"github.com/forensint/celltrace/internal/pipeline"
)

// ingestResult is the per-archive outcome reported back to the uploader.
type ingestResult struct {
	Archive         string         `json:"archive"`
	UploadSessionID string         `json:"upload_session_id,omitempty"`
	DeviceInfo      string         `json:"device_info,omitempty"`
	OwnerPhone      string         `json:"owner_phone,omitempty"`
	Completed       bool           `json:"completed"`
	Stats           pipeline.Stats `json:"stats"`
	ParseFailures   []string       `json:"parse_failures,omitempty"`
	Error           string         `json:"error,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.MaxUploadSize
	if maxSize == 0 {
		maxSize = config.DefaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize*int64(s.cfg.BatchSize))

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	caseNumber := strings.TrimSpace(r.FormValue("case_number"))
	personName := strings.TrimSpace(r.FormValue("person_name"))
	if caseNumber == "" || personName == "" {
		writeError(w, http.StatusBadRequest, "case_number and person_name form fields are required")
		return
	}

	files := r.MultipartForm.File["archives"]
	if len(files) == 0 {
		files = r.MultipartForm.File["archive"]
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "at least one archive file is required")
		return
	}
	if len(files) > s.cfg.BatchSize {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many archives: %d exceeds the batch limit of %d", len(files), s.cfg.BatchSize))
		return
	}

	tmpDir, err := os.MkdirTemp("", "celltrace-upload-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.RemoveAll(tmpDir)

	requests := make([]pipeline.Request, 0, len(files))
	for i, fh := range files {
		if fh.Size > maxSize {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("archive %s exceeds the upload limit", fh.Filename))
			return
		}
		path, err := saveUpload(fh, tmpDir, i)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to stage upload")
			return
		}
		requests = append(requests, pipeline.Request{
			CaseNumber:  caseNumber,
			PersonName:  personName,
			ArchivePath: path,
		})
	}

	results, err := s.batch.ProcessBatch(r.Context(), requests)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// For a single archive the request succeeds or fails as a whole: a
	// bad upload is the client's mistake, anything else is a server-side
	// processing failure. Multi-archive batches keep per-archive errors
	// in the response body instead.
	if len(results) == 1 && results[0].Err != nil {
		err := results[0].Err
		results[0].Cleanup()
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := make([]ingestResult, 0, len(results))
	for i, ing := range results {
		defer ing.Cleanup()
		result := ingestResult{
			Archive:         files[i].Filename,
			UploadSessionID: ing.UploadSessionID,
			DeviceInfo:      ing.DeviceInfo,
			OwnerPhone:      ing.OwnerPhone,
			Completed:       ingestCompleted(ing),
			Stats:           ing.Stats,
			ParseFailures:   ing.ParseFailures,
		}
		if ing.Err != nil {
			result.Error = ing.Err.Error()
		}
		response = append(response, result)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"case_number": caseNumber,
		"person_name": personName,
		"results":     response,
	})
}

// ingestCompleted reports whether the ingestion reached its final
// persistence step.
func ingestCompleted(ing *pipeline.Ingestion) bool {
	steps := ing.PerformedSteps
	return len(steps) > 0 && steps[len(steps)-1] == "persist"
}

// isValidationError reports whether err marks the upload itself as bad
// input rather than a processing failure.
func isValidationError(err error) bool {
	return errors.Is(err, archive.ErrNotZipArchive) || errors.Is(err, archive.ErrMalformedArchive)
}

func saveUpload(fh *multipart.FileHeader, dir string, index int) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// The client-supplied filename is untrusted; only its base name is
	// kept and an index prefix avoids collisions.
	name := fmt.Sprintf("%d_%s", index, filepath.Base(fh.Filename))
	path := filepath.Join(dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}
