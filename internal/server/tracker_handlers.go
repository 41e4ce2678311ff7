package server

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/santoshphuyala/multimanager/pkg/response"
)

func (s *Server) handleTrackerList(w http.ResponseWriter, r *http.Request) {
	items, err := s.trackers.List(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (s *Server) handleTrackerGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.trackers.Get(r.Context(),
		chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, doc)
}

func (s *Server) handleTrackerAdd(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	doc, err := s.trackers.Add(r.Context(), chi.URLParam(r, "collection"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, doc)
}

func (s *Server) handleTrackerUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	doc, err := s.trackers.Update(r.Context(),
		chi.URLParam(r, "collection"), chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, doc)
}

func (s *Server) handleTrackerDelete(w http.ResponseWriter, r *http.Request) {
	err := s.trackers.Delete(r.Context(),
		chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")})
}
