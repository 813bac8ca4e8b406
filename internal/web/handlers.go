package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matehops/mateh/internal/report"
	"github.com/matehops/mateh/internal/sync"
	"github.com/matehops/mateh/internal/web/templates"
)

// handleReportPage renders the training participation page.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.TrainingCounts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.TrainingsPage(report.Lines(counts)).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleTrainings returns the training counts as JSON lines sorted by
// training name.
func (s *Server) handleTrainings(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.TrainingCounts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, report.Lines(counts))
}

// handleListJobs returns the runnable jobs with their descriptions.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.Jobs())
}

// jobResponse is a job result plus its duration in milliseconds.
type jobResponse struct {
	sync.Result
	DurationMS int64 `json:"duration_ms"`
}

// handleRunJob triggers one named job. ?full=1 reprocesses
// already-filled fields on the jobs that distinguish.
func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	if !s.jobRunning.CompareAndSwap(false, true) {
		s.respondError(w, r, errJobInFlight)
		return
	}
	defer s.jobRunning.Store(false)

	full := r.URL.Query().Get("full") == "1" || r.URL.Query().Get("full") == "true"
	res, err := s.service.Run(r.Context(), chi.URLParam(r, "job"), full)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, jobResponse{Result: res, DurationMS: res.Duration.Milliseconds()})
}

// handleDuplicates returns phone-sharing row groups for one table.
func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	var (
		groups map[string][]string
		err    error
	)
	switch table := chi.URLParam(r, "table"); table {
	case "activists":
		groups, err = s.service.DuplicateActivists(r.Context())
	case "registrations":
		groups, err = s.service.DuplicateRegistrations(r.Context())
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown table %q", table))
		return
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, groups)
}

// handleContactsPending returns the contacts awaiting save.
func (s *Server) handleContactsPending(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.service.ContactsPendingSave(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, contacts)
}

// handleContactsExport downloads the pending contacts as a CSV the
// Google Contacts importer accepts.
func (s *Server) handleContactsExport(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.service.ContactsPendingSave(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("contacts_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Phone 1 - Type", "Phone 1 - Value"}); err != nil {
		// Headers are out; nothing to signal beyond dropping the body.
		return
	}
	for _, c := range contacts {
		if err := cw.Write([]string{c.Name, "Mobile", c.Phone}); err != nil {
			return
		}
	}
	cw.Flush()
}

// handleMarkContactSaved flips the saved flag on the row with the UUID.
func (s *Server) handleMarkContactSaved(w http.ResponseWriter, r *http.Request) {
	if err := s.service.MarkContactSaved(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]string{"status": "saved"})
}
