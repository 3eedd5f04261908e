package http

import "net/http"

// NotFoundHandler is the mux fallback: any route no other handler claims
// gets the JSON error envelope instead of the stdlib plain-text 404.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such route")
	})
}
