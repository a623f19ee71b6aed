package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"privacy-governor/internal/infra/logging"
	"privacy-governor/internal/usecase"
)

// Server exposes the governance engine over a small owner-facing API:
// permission checks, anonymization, the transparency dashboard, settings
// and retention controls.
type Server struct {
	governanceUC usecase.GovernanceUseCase
	settingsUC   usecase.SettingsUseCase
	dashboardUC  usecase.DashboardUseCase
	retentionUC  usecase.RetentionUseCase
	auth         *AuthManager
	apiKey       string
	log          *zerolog.Logger
}

func NewServer(
	governanceUC usecase.GovernanceUseCase,
	settingsUC usecase.SettingsUseCase,
	dashboardUC usecase.DashboardUseCase,
	retentionUC usecase.RetentionUseCase,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		governanceUC: governanceUC,
		settingsUC:   settingsUC,
		dashboardUC:  dashboardUC,
		retentionUC:  retentionUC,
		auth:         auth,
		apiKey:       apiKey,
		log:          logger,
	}
}

// Router builds the chi mux. Everything under /api/v1 except /login sits
// behind the auth middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", s.loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/dashboard", s.dashboardHandler)
			r.Get("/score", s.scoreHandler)

			r.Get("/settings", s.settingsGetHandler)
			r.Put("/settings/mode", s.modeHandler)

			r.Get("/providers", s.providersListHandler)
			r.Put("/providers/{provider}", s.providerConfigureHandler)

			r.Post("/check", s.checkHandler)
			r.Post("/anonymize", s.anonymizeHandler)

			r.Get("/usage", s.usageListHandler)
			r.Post("/purge", s.purgeHandler)
			r.Delete("/usage", s.eraseHandler)
		})
	})

	return r
}

// requestIDMiddleware tags every request context so downstream log lines
// can be correlated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware accepts either a minted session JWT or the raw API key as
// a bearer token, so scripted clients can skip the login round-trip.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if _, err := s.auth.ParseFromRequest(r); err == nil {
			next.ServeHTTP(w, r)
			return
		}

		hdr := r.Header.Get("Authorization")
		if hdr == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		parts := strings.Split(hdr, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(s.apiKey)) != 1 {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
