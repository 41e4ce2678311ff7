package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/santoshphuyala/multimanager/internal/auth"
	"github.com/santoshphuyala/multimanager/pkg/response"
)

type pinRequest struct {
	PIN string `json:"pin"`
}

func (s *Server) handlePINStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.gate.Enabled(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

func (s *Server) handlePINSet(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	// Replacing an existing PIN is only allowed from an unlocked session;
	// otherwise anyone could overwrite the lock and walk in.
	enabled, err := s.gate.Enabled(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if enabled {
		if err := s.sessions.Validate(sessionToken(r)); err != nil {
			response.Unauthorized(w, auth.ErrInvalidToken.Error())
			return
		}
	}

	if err := s.gate.Set(r.Context(), req.PIN); err != nil {
		writeError(w, err)
		return
	}

	// Setting a PIN counts as proving knowledge of it, so the client gets a
	// session immediately instead of being locked out of its own request.
	token, err := s.sessions.Issue()
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handlePINVerify(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	token, err := s.gate.Verify(r.Context(), req.PIN)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handlePINDisable(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := s.gate.Disable(r.Context(), req.PIN); err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"enabled": false})
}

func sessionToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
