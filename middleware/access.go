package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/site-intake/clientctx"
	"github.com/blogem/site-intake/models"
	"github.com/blogem/site-intake/services"
)

// AccessRecorder middleware puts the client identity in the request context
// and records every request that is not in skipPaths, after it has been served
// or has panicked. Mount it outside middleware.Recoverer so the recovered 500
// reaches the wrapped writer.
// Recording failures are logged by the service and never touch the response.
func AccessRecorder(access services.AccessService, skipPaths []string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(clientctx.SetClientIP(r.Context(), clientctx.FromRequest(r)))

			if _, ok := skip[r.URL.Path]; ok || !access.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				// A panicking handler still gets its row; the panic goes on to the recoverer.
				rvr := recover()

				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
					if rvr != nil {
						status = http.StatusInternalServerError
					}
				}
				size := ww.BytesWritten()

				// The client may already be gone; the row is still wanted.
				access.RecordAccess(context.WithoutCancel(r.Context()), &models.AccessRequest{
					Header:       r.Header,
					RemoteAddr:   r.RemoteAddr,
					Method:       r.Method,
					RequestURI:   r.URL.RequestURI(),
					StatusCode:   &status,
					ResponseSize: &size,
				})

				if rvr != nil {
					panic(rvr)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
