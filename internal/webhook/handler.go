// Package webhook exposes the notifier's HTTP surface: the inbound Slack
// Events endpoint, the producer-facing publish endpoint, and the operator
// view over the delivery log.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vibeflow/notifier/internal/config"
	"github.com/vibeflow/notifier/internal/deliverylog"
	"github.com/vibeflow/notifier/internal/dispatch"
	"github.com/vibeflow/notifier/internal/format"
	"github.com/vibeflow/notifier/internal/signature"
)

const maxBodyBytes = 1 << 20

// Slack request authentication headers.
const (
	headerTimestamp = "X-Slack-Request-Timestamp"
	headerSignature = "X-Slack-Signature"
)

// Handler wires the HTTP routes to the formatting, verification and
// dispatch components.
type Handler struct {
	cfg        config.Config
	cfgErr     error
	verifier   *signature.Verifier
	formatter  format.Formatter
	dispatcher *dispatch.Dispatcher
	background *dispatch.Background
	store      deliverylog.Store
	log        zerolog.Logger
}

// New builds a Handler. cfgErr, when non-nil, turns every request into a
// 500: a missing credential is a deployment problem, not a per-request one.
func New(cfg config.Config, verifier *signature.Verifier, formatter format.Formatter, dispatcher *dispatch.Dispatcher, background *dispatch.Background, store deliverylog.Store, log zerolog.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		cfgErr:     cfg.Validate(),
		verifier:   verifier,
		formatter:  formatter,
		dispatcher: dispatcher,
		background: background,
		store:      store,
		log:        log,
	}
}

// Router returns the HTTP handler.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestLog)
	r.Use(h.configGuard)
	r.Get("/healthz", h.handleHealth)
	r.Post("/slack/events", h.handleSlackEvents)
	r.Post("/publish", h.handlePublish)
	r.Get("/deliveries/recent", h.handleRecentDeliveries)
	return r
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// configGuard fails every request while the process is misconfigured.
func (h *Handler) configGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfgErr != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "service misconfigured: " + h.cfgErr.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// eventEnvelope is the subset of the Events API payload the notifier reads.
type eventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type string `json:"type"`
		User struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			RealName string `json:"real_name"`
		} `json:"user"`
	} `json:"event"`
}

func (h *Handler) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	// The raw body is authenticated before any of it is interpreted.
	if !h.verifier.Verify(body, r.Header.Get(headerTimestamp), r.Header.Get(headerSignature)) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	switch envelope.Type {
	case "url_verification":
		writeJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
		return
	case "event_callback":
		if envelope.Event.Type == "team_join" && envelope.Event.User.ID != "" {
			h.scheduleWelcome(envelope.Event.User.ID, envelope.Event.User.RealName, envelope.Event.User.Name)
		}
	}

	// Acknowledge promptly; the platform has no channel for late failures.
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// scheduleWelcome runs the welcome flow out of band so the webhook response
// stays inside the platform's acknowledgment budget. Failures end up in the
// delivery log only.
func (h *Handler) scheduleWelcome(userID, realName, name string) {
	displayName := realName
	if displayName == "" {
		displayName = name
	}
	h.background.Go("welcome:"+userID, func(ctx context.Context) {
		msg := format.Welcome()
		if err := h.dispatcher.Welcome(ctx, userID, displayName, msg); err != nil {
			h.log.Debug().Err(err).Str("user", userID).Msg("welcome delivery failed")
		}
	})
}

func (h *Handler) handleRecentDeliveries(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.RecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	entries, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delivery log unavailable"})
		return
	}
	if entries == nil {
		entries = []deliverylog.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
