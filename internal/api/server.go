// Package api exposes the ledger over HTTP: per-collection CRUD, sub-ledger
// lookups, exchange rates, invoices and reports.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wigapos/ledger/internal/auth"
	"github.com/wigapos/ledger/internal/ledger"
)

// Server is the HTTP API server.
type Server struct {
	ledger         *ledger.Service
	billing        *ledger.Billing
	auth           *auth.Service
	metricsEnabled bool
}

// NewServer wires the services behind the router.
func NewServer(svc *ledger.Service, billing *ledger.Billing, authSvc *auth.Service) *Server {
	return &Server{ledger: svc, billing: billing, auth: authSvc}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

type ctxKey int

const tenantKey ctxKey = 0

// tenantFrom returns the tenant identifier set by requireAuth.
func tenantFrom(r *http.Request) string {
	tenant, _ := r.Context().Value(tenantKey).(string)
	return tenant
}

// requireAuth verifies the bearer token and stores the tenant in the
// request context. Every ledger route runs behind it.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorBody("missing or invalid Authorization header"))
			return
		}
		tenant, err := s.auth.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody("invalid token"))
			return
		}
		ctx := context.WithValue(r.Context(), tenantKey, tenant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Post("/auth/signup", s.handleSignUp)
	r.Post("/auth/signin", s.handleSignIn)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/ledgers/{collection}", func(r chi.Router) {
			r.Get("/entries", s.handleListEntries)
			r.Post("/entries", s.handleCreateEntry)
			r.Get("/entries/{id}", s.handleGetEntry)
			r.Put("/entries/{id}", s.handleUpdateEntry)
			r.Delete("/entries/{id}", s.handleDeleteEntry)
			r.Get("/summary", s.handleSummary)
			r.Get("/groups/{key}", s.handleGroup)
		})

		r.Get("/rates", s.handleGetRates)
		r.Put("/rates/{currency}", s.handleSetRate)
		r.Post("/rescale", s.handleRescale)

		r.Get("/invoices", s.handleListInvoices)
		r.Post("/invoices", s.handleSaveInvoice)
		r.Get("/invoices/{id}", s.handleGetInvoice)
		r.Get("/invoices/{id}/report.pdf", s.handleInvoicePDF)

		r.Get("/items/{code}", s.handleItemLookup)
		r.Get("/parties", s.handlePartyNames)
	})

	return r
}
