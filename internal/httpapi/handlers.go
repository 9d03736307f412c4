package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yoonbae81/ytcapt/internal/refine"
	"github.com/yoonbae81/ytcapt/internal/service"
	"github.com/yoonbae81/ytcapt/internal/source"
	"github.com/yoonbae81/ytcapt/pkg/file"
	"github.com/yoonbae81/ytcapt/pkg/log"
)

type processResponse struct {
	OK          bool                   `json:"ok"`
	Type        string                 `json:"type,omitempty"`
	Document    *refine.Document       `json:"document,omitempty"`
	Playlist    []source.PlaylistEntry `json:"playlist,omitempty"`
	DownloadURL string                 `json:"download_url,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var url, lang string
	var force bool
	if r.Method == http.MethodGet {
		url = strings.TrimSpace(r.URL.Query().Get("url"))
		lang = strings.TrimSpace(r.URL.Query().Get("lang"))
		force, _ = strconv.ParseBool(r.URL.Query().Get("force"))
	} else if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			URL   string `json:"url"`
			Lang  string `json:"lang"`
			Force bool   `json:"force"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		url, lang, force = strings.TrimSpace(req.URL), strings.TrimSpace(req.Lang), req.Force
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		url = strings.TrimSpace(r.PostFormValue("url"))
		lang = strings.TrimSpace(r.PostFormValue("lang"))
		force, _ = strconv.ParseBool(r.PostFormValue("force"))
	}

	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := s.svc.Process(r.Context(), url, lang, force)
	if err != nil {
		// Expected outcomes render inline for the form, not as a server error.
		if service.IsExpected(err) {
			writeJSON(w, http.StatusOK, processResponse{OK: false, Error: service.UserMessage(err)})
			return
		}
		log.Error("Processing %s failed: %v", url, err)
		writeError(w, http.StatusInternalServerError, service.UserMessage(err))
		return
	}

	if result.Playlist != nil {
		writeJSON(w, http.StatusOK, processResponse{
			OK:       true,
			Type:     "playlist",
			Playlist: result.Playlist,
		})
		return
	}

	doc := result.Document
	writeJSON(w, http.StatusOK, processResponse{
		OK:          true,
		Type:        "video",
		Document:    doc,
		DownloadURL: fmt.Sprintf("/download?v=%s&lang=%s", doc.VideoID, doc.Language),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	videoID := strings.TrimSpace(r.URL.Query().Get("v"))
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	if videoID == "" || lang == "" {
		writeError(w, http.StatusBadRequest, "v and lang are required")
		return
	}

	doc, err := s.lookupDocument(r, videoID, lang)
	if err != nil {
		if service.IsExpected(err) {
			writeError(w, http.StatusNotFound, service.UserMessage(err))
			return
		}
		log.Error("Download of %s/%s failed: %v", videoID, lang, err)
		writeError(w, http.StatusInternalServerError, service.UserMessage(err))
		return
	}

	filename := fmt.Sprintf("%s.%s.txt", file.SanitizeFilename(doc.Title), lang)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(service.Artifact(doc)))
}

// lookupDocument serves downloads from the cache, re-processing the video
// when the entry has expired since the page was rendered.
func (s *Server) lookupDocument(r *http.Request, videoID, lang string) (*refine.Document, error) {
	entry, ok, err := s.store.Get(r.Context(), videoID, lang, time.Now())
	if err == nil && ok {
		doc := entry.Document
		return &doc, nil
	}

	result, err := s.svc.Process(r.Context(), "https://www.youtube.com/watch?v="+videoID, lang, false)
	if err != nil {
		return nil, err
	}
	if result.Document == nil {
		return nil, service.NewError(service.ErrInvalidURL, "download target is not a single video")
	}
	return result.Document, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": msg,
	})
}
