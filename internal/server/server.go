// Package server exposes the extraction operation over HTTP and maps the
// pipeline's error taxonomy to transport responses.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"rosterhound/internal/enrich"
	"rosterhound/internal/portal"
	"rosterhound/internal/schedule"
)

// Extractor is the pipeline boundary the server drives.
type Extractor interface {
	ExtractSchedule(ctx context.Context, req portal.Request) (*schedule.Snapshot, error)
	ManualFallbackURL() string
}

// extractRequest is the transport request body.
type extractRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Airline    string `json:"airline" validate:"required"`
	Month      int    `json:"month" validate:"omitempty,min=1,max=12"`
	Year       int    `json:"year" validate:"omitempty,min=2000,max=2100"`
	FirstLogin bool   `json:"first_login"`
	Refresh    bool   `json:"refresh"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Retriable   bool   `json:"retriable"`
	FallbackURL string `json:"fallback_url,omitempty"`
}

// Server handles schedule extraction requests.
type Server struct {
	svc      Extractor
	enricher *enrich.Enricher
	validate *validator.Validate
	log      *zap.Logger
}

// New returns a server over an extractor. The enricher may be nil.
func New(svc Extractor, enricher *enrich.Enricher, log *zap.Logger) *Server {
	return &Server{
		svc:      svc,
		enricher: enricher,
		validate: validator.New(),
		log:      log.Named("server"),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/schedule", s.handleExtract).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var body extractRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	req := portal.Request{
		EmployeeID:  body.EmployeeID,
		Password:    body.Password,
		Airline:     body.Airline,
		TargetMonth: time.Month(body.Month),
		TargetYear:  body.Year,
		FirstLogin:  body.FirstLogin,
		Refresh:     body.Refresh,
	}

	start := time.Now()
	snap, err := s.svc.ExtractSchedule(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.enricher != nil {
		s.enricher.ActualTimes(r.Context(), snap)
	}

	s.log.Info("schedule extracted",
		zap.String("employee", body.EmployeeID),
		zap.Int("duties", len(snap.Duties)),
		zap.Duration("took", time.Since(start)))
	writeJSON(w, http.StatusOK, snap)
}

// writeError maps the error taxonomy: invalid credentials are terminal;
// timeouts and exhausted retries are retriable and ship the manual-access
// fallback link; everything else is a generic failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portal.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: "invalid credentials",
		})
	case portal.Retriable(err), errors.Is(err, portal.ErrMaxAttemptsExceeded):
		s.log.Warn("extraction unavailable", zap.Error(err))
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Error:       "portal unavailable, try again shortly",
			Retriable:   true,
			FallbackURL: s.svc.ManualFallbackURL(),
		})
	default:
		s.log.Error("extraction failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
