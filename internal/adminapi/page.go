package adminapi

import (
	"net/http"

	"github.com/dmartinc/offerlock/web"
)

// handleAdminPage serves the embedded admin page shell. The page's data
// calls all go through the authenticated /api/v1 routes, so serving the
// shell itself unauthenticated leaks nothing.
func (a *API) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	page, err := web.Static.ReadFile("static/admin.html")
	if err != nil {
		http.Error(w, "admin page unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
