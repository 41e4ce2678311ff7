// Package server wires the application services into a chi HTTP API.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/santoshphuyala/multimanager/internal/auth"
	"github.com/santoshphuyala/multimanager/internal/ledger"
	"github.com/santoshphuyala/multimanager/internal/middleware"
	"github.com/santoshphuyala/multimanager/internal/service"
	"github.com/santoshphuyala/multimanager/internal/storage"
	"github.com/santoshphuyala/multimanager/pkg/response"
)

// Server holds the services behind the HTTP API.
type Server struct {
	store    storage.Store
	groups   *service.GroupService
	trackers *service.TrackerService
	gate     *auth.PINGate
	sessions *auth.SessionManager
}

// New creates a Server over the given store and auth components.
func New(store storage.Store, gate *auth.PINGate, sessions *auth.SessionManager) *Server {
	return &Server{
		store:    store,
		groups:   service.NewGroupService(store),
		trackers: service.NewTrackerService(store),
		gate:     gate,
		sessions: sessions,
	}
}

// Routes builds the full router: middleware chain, API routes behind the PIN
// gate, and the operational endpoints outside it.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// PIN endpoints stay outside the gate so a locked-out client can still
	// verify.
	r.Route("/api/pin", func(r chi.Router) {
		r.Get("/", s.handlePINStatus)
		r.Post("/", s.handlePINSet)
		r.Post("/verify", s.handlePINVerify)
		r.Delete("/", s.handlePINDisable)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePIN(s.gate, s.sessions))

		r.Route("/api/groups", func(r chi.Router) {
			r.Get("/", s.handleListGroups)
			r.Post("/", s.handleCreateGroup)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGroup)
				r.Put("/", s.handleUpdateGroup)
				r.Delete("/", s.handleDeleteGroup)
				r.Post("/settled", s.handleToggleSettled)
				r.Get("/summary", s.handleGroupSummary)
				r.Get("/days", s.handleGroupDays)
				r.Get("/export", s.handleGroupExport)
				r.Post("/expenses", s.handleAddExpense)
				r.Put("/expenses/{expenseID}", s.handleUpdateExpense)
				r.Delete("/expenses/{expenseID}", s.handleDeleteExpense)
			})
		})

		r.Get("/api/backup", s.handleBackup)
		r.Post("/api/restore", s.handleRestore)

		// Generic tracker collections; the service rejects names outside its
		// whitelist, so this catch-all cannot reach groups or settings.
		r.Route("/api/{collection}", func(r chi.Router) {
			r.Get("/", s.handleTrackerList)
			r.Post("/", s.handleTrackerAdd)
			r.Get("/{id}", s.handleTrackerGet)
			r.Put("/{id}", s.handleTrackerUpdate)
			r.Delete("/{id}", s.handleTrackerDelete)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps service errors onto HTTP statuses: validation failures to
// 400, missing records to 404, PIN failures to 401, everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var mismatch *ledger.SplitMismatchError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, auth.ErrInvalidPIN), errors.Is(err, auth.ErrPINNotSet):
		response.Unauthorized(w, err.Error())
	case errors.As(err, &mismatch),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidSplitAmount),
		errors.Is(err, auth.ErrMalformedPIN),
		errors.Is(err, service.ErrUnknownCollection),
		errors.Is(err, service.ErrInvalidDocument),
		errors.Is(err, service.ErrEmptyGroupName),
		errors.Is(err, service.ErrTooFewParticipants),
		errors.Is(err, service.ErrDuplicateParticipant),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrUnknownPayer):
		response.BadRequest(w, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		response.InternalError(w, "error saving data")
	}
}
