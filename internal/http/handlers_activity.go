package http

import "net/http"

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := ParsePaging(q)

	p, err := s.svc.Activity.List(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]activityJSON, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, newActivityJSON(a))
	}
	writeJSON(w, http.StatusOK, listJSON[activityJSON]{
		Items:      items,
		Pagination: newPaginationJSON(p.PageMeta, q),
	})
}
