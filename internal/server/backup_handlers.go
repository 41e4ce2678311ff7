package server

import (
	"encoding/json"
	"net/http"

	"github.com/santoshphuyala/multimanager/internal/export"
	"github.com/santoshphuyala/multimanager/pkg/response"
)

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := export.BackupAll(r.Context(), s.store)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, backup)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var backup export.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		response.BadRequest(w, "invalid backup payload")
		return
	}

	if err := export.RestoreAll(r.Context(), s.store, &backup); err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"collections": len(backup.Collections)})
}
