package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	APIKey string `json:"api_key"`
}

// loginHandler trades the API key for a short-lived session cookie/JWT.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	dash, err := s.dashboardUC.Dashboard(r.Context())
	if err != nil {
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	score, err := s.dashboardUC.PrivacyScore(r.Context())
	if err != nil {
		http.Error(w, "Failed to compute score", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"privacy_score": score})
}

func (s *Server) settingsGetHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsUC.Settings(r.Context())
	if err != nil {
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) modeHandler(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mode, err := model.ParsePrivacyMode(req.Mode)
	if err != nil {
		http.Error(w, "Unknown privacy mode", http.StatusBadRequest)
		return
	}
	settings, err := s.settingsUC.SetMode(r.Context(), mode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to change mode", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) providersListHandler(w http.ResponseWriter, r *http.Request) {
	pols, err := s.settingsUC.Providers(r.Context())
	if err != nil {
		http.Error(w, "Failed to list providers", http.StatusInternalServerError)
		return
	}
	response := struct {
		Data []*model.ProviderPolicy `json:"data"`
	}{Data: pols}
	writeJSON(w, http.StatusOK, response)
}

type providerConfigureRequest struct {
	Allowed              bool     `json:"allowed"`
	AllowedTasks         []string `json:"allowed_tasks"`
	RequireAnonymization bool     `json:"require_anonymization"`
	AutoApprove          bool     `json:"auto_approve"`
	DailyLimit           int      `json:"daily_limit"`
}

func (s *Server) providerConfigureHandler(w http.ResponseWriter, r *http.Request) {
	provider, err := model.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.Error(w, "Unknown provider", http.StatusBadRequest)
		return
	}

	var req providerConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	tasks := make([]model.TaskType, 0, len(req.AllowedTasks))
	for _, t := range req.AllowedTasks {
		tasks = append(tasks, model.TaskType(t))
	}

	err = s.settingsUC.ConfigureProvider(r.Context(), provider, req.Allowed, tasks,
		req.RequireAnonymization, req.AutoApprove, req.DailyLimit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to configure provider", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkRequest struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	TaskType string `json:"task_type"`
}

// checkHandler is a dry-run permission check; it never mutates the ledger.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	provider, err := model.ParseProvider(req.Provider)
	if err != nil {
		http.Error(w, "Unknown provider", http.StatusBadRequest)
		return
	}

	decision, err := s.governanceUC.CheckPermission(r.Context(), req.Content, provider, model.TaskType(req.TaskType))
	if err != nil && !errors.Is(err, domain.ErrClassifierUnavailable) {
		http.Error(w, "Permission check failed", http.StatusInternalServerError)
		return
	}
	// A classifier failure still yields a well-formed (fail-closed) decision.
	writeJSON(w, http.StatusOK, decision)
}

type anonymizeRequest struct {
	Content string `json:"content"`
	Level   string `json:"level"`
}

func (s *Server) anonymizeHandler(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	level := model.AnonymizationLevel(req.Level)
	if level == "" {
		level = model.AnonymizeStandard
	}
	if level != model.AnonymizeStandard && level != model.AnonymizeAggressive {
		http.Error(w, "Unknown anonymization level", http.StatusBadRequest)
		return
	}

	redacted, replacements, err := s.governanceUC.Anonymize(r.Context(), req.Content, level)
	if err != nil {
		http.Error(w, "Anonymization failed", http.StatusInternalServerError)
		return
	}
	response := struct {
		Content      string            `json:"content"`
		Replacements map[string]string `json:"replacements"`
	}{Content: redacted, Replacements: replacements}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) usageListHandler(w http.ResponseWriter, r *http.Request) {
	dash, err := s.dashboardUC.Dashboard(r.Context())
	if err != nil {
		http.Error(w, "Failed to list usage", http.StatusInternalServerError)
		return
	}
	response := struct {
		Data []*model.UsageRecord `json:"data"`
	}{Data: dash.RecentActivity}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) purgeHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.retentionUC.PurgeExpired(r.Context(), time.Now())
	if err != nil {
		http.Error(w, "Purge failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"purged": n})
}

func (s *Server) eraseHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.retentionUC.EraseAll(r.Context())
	if err != nil {
		http.Error(w, "Erase failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"erased": n})
}
