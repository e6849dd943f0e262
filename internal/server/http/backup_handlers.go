package httpserver

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromCtx(r.Context())
	name, err := s.backup.Export(r.Context(), id.UserID)
	if err != nil {
		writeError(s.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

type backupResponse struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromCtx(r.Context())
	backups, err := s.backup.ListBackups(r.Context(), id.UserID)
	if err != nil {
		writeError(s.log, w, err)
		return
	}
	out := make([]backupResponse, 0, len(backups))
	for _, b := range backups {
		out = append(out, backupResponse{Name: b.Name, CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339)})
	}
	writeJSON(w, http.StatusOK, map[string][]backupResponse{"backups": out})
}

type restoreRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Name == "" {
		badRequest(w, "missing backup name")
		return
	}
	id, _ := IdentityFromCtx(r.Context())
	if err := s.backup.Import(r.Context(), id.UserID, req.Name); err != nil {
		writeError(s.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
