package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/santoshphuyala/multimanager/internal/export"
	"github.com/santoshphuyala/multimanager/internal/service"
	"github.com/santoshphuyala/multimanager/pkg/response"
)

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var in service.GroupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var in service.GroupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	group, err := s.groups.UpdateGroup(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, group)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}

func (s *Server) handleToggleSettled(w http.ResponseWriter, r *http.Request) {
	settled, err := s.groups.ToggleSettled(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"settled": settled})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var in service.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	expense, err := s.groups.AddExpense(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var in service.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	expense, err := s.groups.UpdateExpense(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "expenseID"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.groups.DeleteExpense(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "expenseID")})
}

func (s *Server) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.groups.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

func (s *Server) handleGroupDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.groups.DaySummaries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, days)
}

func (s *Server) handleGroupExport(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	stamp := time.Now().Format("20060102")
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		response.JSON(w, http.StatusOK, export.GroupJSON(group))
	case "csv":
		data, err := export.GroupCSV(group)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "group_"+stamp+".csv"))
		w.Write(data)
	case "xlsx":
		data, err := export.GroupXLSX(group)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "group_"+stamp+".xlsx"))
		w.Write(data)
	default:
		response.BadRequest(w, "unknown export format: "+format)
	}
}
