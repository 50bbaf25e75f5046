package http

import (
	"net/http"

	"daftar/internal/core"
)

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.svc.Partners.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]partnerJSON, 0, len(partners))
	for _, p := range partners {
		items = append(items, newPartnerJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Partners.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPartnerJSON(p))
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	in, err := decodePartnerInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Partners.Create(r.Context(), s.actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutationsTotal.WithLabelValues(core.EntityPartner, string(core.ActionCreate)).Inc()
	writeJSON(w, http.StatusCreated, newPartnerJSON(p))
}

func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := decodePartnerInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Partners.Update(r.Context(), s.actor(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutationsTotal.WithLabelValues(core.EntityPartner, string(core.ActionUpdate)).Inc()
	writeJSON(w, http.StatusOK, newPartnerJSON(p))
}

func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Partners.Delete(r.Context(), s.actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	mutationsTotal.WithLabelValues(core.EntityPartner, string(core.ActionDelete)).Inc()
	w.WriteHeader(http.StatusNoContent)
}
