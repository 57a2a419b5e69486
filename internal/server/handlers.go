package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"lectern/internal/logging"
	"lectern/internal/logs"
	"lectern/internal/services"
	"lectern/internal/worksheet"
)

type encryptedContentRequest struct {
	WorksheetID string `json:"worksheetId"`
	UserID      string `json:"userId"`
}

type encryptedContentResponse struct {
	EncryptedPDF string         `json:"encryptedPdf"`
	IV           string         `json:"iv"`
	Meta         worksheet.Meta `json:"meta"`
	Encrypted    bool           `json:"encrypted"`
}

type contentResponse struct {
	Meta   worksheet.Meta `json:"meta"`
	PDFURL string         `json:"pdfUrl,omitempty"`
}

type worksheetListResponse struct {
	Worksheets []worksheet.Meta `json:"worksheets"`
}

type statusResponse struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	KeyConfigured  bool   `json:"keyConfigured"`
	WorksheetCount int    `json:"worksheetCount"`
	UptimeSeconds  int64  `json:"uptimeSeconds"`
	Address        string `json:"address"`
}

func (s *Server) handleEncryptedContent(w http.ResponseWriter, r *http.Request) {
	var req encryptedContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.WorksheetID = strings.TrimSpace(req.WorksheetID)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.WorksheetID == "" {
		s.writeError(w, http.StatusBadRequest, "worksheetId is required")
		return
	}

	ctx := services.WithWorksheetID(r.Context(), req.WorksheetID)
	ctx = services.WithRequester(ctx, req.UserID)

	meta, err := s.meta.GetMeta(ctx, req.WorksheetID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	payload, err := s.protect.EncryptAsset(ctx, req.UserID, req.WorksheetID, req.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if err := s.notifier.NotifyAssetAccessed(ctx, req.WorksheetID, req.UserID); err != nil {
		s.logger.Warn("access notification failed", logging.Error(err))
	}
	s.events.Broadcast(Event{
		Type:        "asset_accessed",
		WorksheetID: req.WorksheetID,
		Requester:   req.UserID,
	})

	s.writeJSON(w, http.StatusOK, encryptedContentResponse{
		EncryptedPDF: payload.CiphertextB64,
		IV:           payload.IVB64,
		Meta:         meta,
		Encrypted:    true,
	})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	worksheetID := mux.Vars(r)["worksheetId"]
	ctx := services.WithWorksheetID(r.Context(), worksheetID)

	meta, err := s.meta.GetMeta(ctx, worksheetID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := contentResponse{Meta: meta}
	if s.signer != nil {
		token, err := s.signer.Sign(worksheetID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		resp.PDFURL = "/api/assets/" + worksheetID + "?token=" + token
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	worksheetID := mux.Vars(r)["worksheetId"]
	if s.signer == nil {
		s.writeError(w, http.StatusNotFound, "asset downloads are not enabled")
		return
	}

	granted, err := s.signer.Verify(r.URL.Query().Get("token"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if granted != worksheetID {
		s.writeError(w, http.StatusForbidden, "token does not grant this worksheet")
		return
	}

	data, _, err := s.protect.ResolveAsset(r.Context(), r.URL.Query().Get("owner"), worksheetID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// audioFilePattern matches narration clip names: {regionName}_{stepNumber}.mp3
// with 1-indexed step numbers.
var audioFilePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*_[1-9][0-9]*\.mp3$`)

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	worksheetID := vars["worksheetId"]
	file := vars["file"]

	if strings.ContainsAny(worksheetID, `/\`) || worksheetID == ".." {
		s.writeError(w, http.StatusBadRequest, "invalid worksheet id")
		return
	}
	if !audioFilePattern.MatchString(file) {
		s.writeError(w, http.StatusBadRequest, "invalid audio clip name")
		return
	}

	path := filepath.Join(s.cfg.Paths.AudioDir, worksheetID, file)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "audio clip not found")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func (s *Server) handleWorksheetList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, worksheetListResponse{})
		return
	}
	metas, err := s.store.ListMeta(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, worksheetListResponse{Worksheets: metas})
}

const (
	defaultLogLimit = 200
	maxLogWait      = 25 * time.Second
)

// handleLogs serves daemon log lines with offset continuation. Follow mode
// waits bounded under the write timeout so clients can long-poll.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	path := logging.FilePath(s.cfg)
	if path == "" {
		s.writeError(w, http.StatusNotFound, "log file is not configured")
		return
	}

	opts := logs.Options{Offset: -1, Limit: defaultLogLimit}
	query := r.URL.Query()
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		opts.Offset = offset
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	if query.Get("follow") == "1" {
		opts.Follow = true
		opts.Wait = maxLogWait
	}

	result, err := logs.Tail(r.Context(), path, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Running:       true,
		PID:           os.Getpid(),
		KeyConfigured: s.protect != nil && s.protect.KeyConfigured(),
		Address:       s.Addr(),
	}
	if s.store != nil {
		if count, err := s.store.Count(r.Context()); err == nil {
			resp.WorksheetCount = count
		}
	}
	if !s.started.IsZero() {
		resp.UptimeSeconds = int64(time.Since(s.started).Seconds())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses so handlers
// never invent their own mapping.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
	}
	s.writeError(w, status, err.Error())
}
