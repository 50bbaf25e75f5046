package http

import (
	"net/http"

	"daftar/internal/core"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, fe := ParseOrderFilter(q)
	if fe != nil {
		writeError(w, r, fe)
		return
	}
	page, size := ParsePaging(q)

	p, err := s.svc.Orders.List(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]orderJSON, 0, len(p.Items))
	for _, o := range p.Items {
		items = append(items, newOrderJSON(o))
	}
	writeJSON(w, http.StatusOK, listJSON[orderJSON]{
		Items:      items,
		Pagination: newPaginationJSON(p.PageMeta, q),
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.svc.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderJSON(o))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	in, err := decodeOrderInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.svc.Orders.Create(r.Context(), s.actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutationsTotal.WithLabelValues(core.EntityOrder, string(core.ActionCreate)).Inc()
	writeJSON(w, http.StatusCreated, newOrderJSON(o))
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := decodeOrderInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.svc.Orders.Update(r.Context(), s.actor(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mutationsTotal.WithLabelValues(core.EntityOrder, string(core.ActionUpdate)).Inc()
	writeJSON(w, http.StatusOK, newOrderJSON(o))
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Orders.Delete(r.Context(), s.actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	mutationsTotal.WithLabelValues(core.EntityOrder, string(core.ActionDelete)).Inc()
	w.WriteHeader(http.StatusNoContent)
}
