package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes caps how much of an unread body is drained so the connection can be reused.
const maxDrainBytes = 1 << 20

// DrainAndCloseRequest drains (up to maxDrainBytes) and closes the request body after the handler returns.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
				_ = r.Body.Close()
			}
		})
	}
}
