package http

import (
	"bytes"
	"fmt"
	"net/http"

	"daftar/internal/ledger"
	"daftar/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	from, to, fe := ParseDateRange(r.URL.Query())
	if fe != nil {
		writeError(w, r, fe)
		return
	}

	d, err := s.svc.Dashboard.Dashboard(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardJSON(d))
}

// handleDashboardExport streams the CSV for the same range the dashboard
// shows. The body is buffered so a failure still yields a clean error.
func (s *Server) handleDashboardExport(w http.ResponseWriter, r *http.Request) {
	from, to, fe := ParseDateRange(r.URL.Query())
	if fe != nil {
		writeError(w, r, fe)
		return
	}

	var buf bytes.Buffer
	if err := s.svc.Dashboard.Export(r.Context(), &buf, from, to); err != nil {
		writeError(w, r, err)
		return
	}
	exportsTotal.Inc()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Dashboard CSV served",
		log.FieldOperation, log.OpExport,
		log.FieldDateFrom, from.String(),
		log.FieldDateTo, to.String())

	w.Header().Set("Content-Type", ledger.ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ledger.ExportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
