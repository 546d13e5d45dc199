// Package server exposes the timesheet filler over HTTP: a single
// fill endpoint plus a health check. The handlers are a thin wrapper;
// all state and failure handling lives in the camis package.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/entrhq/timefill/pkg/camis"
	"github.com/entrhq/timefill/pkg/worklog"
)

// ServiceName identifies this service in health responses.
const ServiceName = "CAMIS Timesheet API"

// targetDateLayout is the wire format for the request's target date.
const targetDateLayout = "2006-01-02"

// Submitter runs one browser session per submitted day. Implemented by
// camis.Service; tests inject fakes.
type Submitter interface {
	SubmitDay(day *worklog.Day, date time.Time, headless bool) (camis.Result, error)
}

// Entry is one requested timesheet line.
type Entry struct {
	Workorder   string  `json:"workorder"`
	Activity    string  `json:"activity"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
}

// FillRequest is the body of POST /fill-timesheet.
type FillRequest struct {
	TargetDate string  `json:"target_date"`
	Entries    []Entry `json:"entries"`
	Headless   bool    `json:"headless"`
}

// FillResponse is the structured result returned for every fill
// request, successful or not. Callers never see a raw transport error.
type FillResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	TotalHours       float64  `json:"total_hours"`
	EntriesProcessed int      `json:"entries_processed"`
	Errors           []string `json:"errors"`
}

// Server routes HTTP requests to the submitter.
type Server struct {
	submitter Submitter
	version   string
	log       zerolog.Logger
}

// New returns a Server wired to the given submitter.
func New(submitter Submitter, version string, log zerolog.Logger) *Server {
	return &Server{submitter: submitter, version: version, log: log}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID)
	r.HandleFunc("/fill-timesheet", s.handleFill).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

// requestID tags every request with a correlation id, echoed in the
// X-Request-ID header and attached to the request's log events.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		log := s.log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var req FillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	date, err := time.Parse(targetDateLayout, req.TargetDate)
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, fmt.Sprintf("invalid target_date: %v", err))
		return
	}
	if len(req.Entries) == 0 {
		s.writeFailure(w, http.StatusBadRequest, "entries must not be empty")
		return
	}

	items := make([]worklog.LineItem, 0, len(req.Entries))
	for _, e := range req.Entries {
		items = append(items, worklog.LineItem{
			Workorder:   e.Workorder,
			Activity:    e.Activity,
			Description: e.Description,
			Hours:       e.Hours,
		})
	}

	day, err := worklog.NewDay(items, nil)
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info().
		Str("date", req.TargetDate).
		Int("entries", day.Len()).
		Float64("total_hours", day.TotalHours()).
		Msg("processing timesheet request")

	result, err := s.submitter.SubmitDay(day, date, req.Headless)
	if err != nil {
		// Session-level failure: nothing was submitted.
		log.Error().Err(err).Msg("timesheet processing failed")
		s.writeJSON(w, http.StatusInternalServerError, FillResponse{
			Success:          false,
			Message:          fmt.Sprintf("timesheet processing failed: %v", err),
			TotalHours:       day.TotalHours(),
			EntriesProcessed: 0,
			Errors:           []string{err.Error()},
		})
		return
	}

	message := fmt.Sprintf("Successfully processed %d entries with %g total hours",
		result.EntriesProcessed, result.TotalHours)
	if len(result.Errors) > 0 {
		message = fmt.Sprintf("Processed entries but found errors: %s", strings.Join(result.Errors, ", "))
	}

	s.writeJSON(w, http.StatusOK, FillResponse{
		Success:          result.Success,
		Message:          message,
		TotalHours:       result.TotalHours,
		EntriesProcessed: result.EntriesProcessed,
		Errors:           append([]string{}, result.Errors...),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": s.version,
	})
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, FillResponse{
		Success: false,
		Message: message,
		Errors:  []string{message},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}
