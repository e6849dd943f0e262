package httpserver

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/akarpov87/budget-keeper/internal/model"
	"github.com/akarpov87/budget-keeper/internal/service"
)

type registerRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	Email            string `json:"email"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Password != req.ConfirmPassword {
		badRequest(w, "passwords do not match")
		return
	}
	if len(req.Password) < service.MinPasswordLen {
		badRequest(w, "password must be at least 8 characters long")
		return
	}
	if !slices.Contains(model.SecurityQuestions, req.SecurityQuestion) {
		badRequest(w, "unknown security question")
		return
	}

	id, err := s.auth.Register(r.Context(), req.Username, req.Password, req.Email, req.SecurityQuestion, req.SecurityAnswer)
	if err != nil {
		writeError(s.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(s.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		badRequest(w, "missing bearer token")
		return
	}
	// Idempotent: logging out an already-dead token succeeds.
	if err := s.auth.Logout(r.Context(), token); err != nil {
		writeError(s.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Username        string `json:"username"`
	SecurityAnswer  string `json:"security_answer"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		badRequest(w, "passwords do not match")
		return
	}
	if len(req.NewPassword) < service.MinPasswordLen {
		badRequest(w, "password must be at least 8 characters long")
		return
	}
	if err := s.auth.ResetPassword(r.Context(), req.Username, req.SecurityAnswer, req.NewPassword); err != nil {
		writeError(s.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":  id.UserID.String(),
		"username": id.Username,
	})
}

func (s *Server) handleSecurityQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"questions": model.SecurityQuestions})
}
