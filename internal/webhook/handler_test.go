package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeflow/notifier/internal/config"
	"github.com/vibeflow/notifier/internal/deliverylog"
	"github.com/vibeflow/notifier/internal/dispatch"
	"github.com/vibeflow/notifier/internal/format"
	"github.com/vibeflow/notifier/internal/signature"
	"github.com/vibeflow/notifier/internal/slackapi"
)

const testSecret = "s3cr3t"

type fixture struct {
	handler    http.Handler
	background *dispatch.Background
	store      *deliverylog.MemoryStore
	slackCalls *int
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()

	calls := 0
	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/conversations.open":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": map[string]string{"id": "D042"}})
		case "/chat.postMessage":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))
	t.Cleanup(slack.Close)

	cfg := config.Config{
		SigningSecret:   testSecret,
		BotToken:        "xoxb-test",
		WebhookURL:      slack.URL + "/hook",
		AnnounceChannel: "#novidades",
		SiteBaseURL:     "https://vibeflow.site",
		APIBaseURL:      slack.URL,
		RatePerSec:      1000,
		RecentLimit:     50,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	store := deliverylog.NewMemoryStore()
	recorder := deliverylog.NewRecorder(store, zerolog.Nop())
	client := slackapi.New(cfg.APIBaseURL, cfg.BotToken)
	dispatcher := dispatch.New(client, recorder, cfg.WebhookURL, cfg.RatePerSec, zerolog.Nop())
	background := dispatch.NewBackground(zerolog.Nop())
	h := New(cfg, signature.New(cfg.SigningSecret), format.New(cfg.SiteBaseURL), dispatcher, background, store, zerolog.Nop())

	return &fixture{handler: h.Router(), background: background, store: store, slackCalls: &calls}
}

func signedRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
	req.Header.Set(headerTimestamp, ts)
	req.Header.Set(headerSignature, signature.Compute(testSecret, ts, body))
	return req
}

func TestURLVerificationChallenge(t *testing.T) {
	fx := newFixture(t, nil)
	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, signedRequest(t, body))

	require.Equal(t, http.StatusOK, rr.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "abc123", out["challenge"])
}

func TestEventsRejectBadSignature(t *testing.T) {
	fx := newFixture(t, nil)
	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
	req.Header.Set(headerTimestamp, ts)
	req.Header.Set(headerSignature, signature.Compute("wrong-secret", ts, body))

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.NotEmpty(t, out["error"])
}

func TestEventsRejectStaleTimestamp(t *testing.T) {
	fx := newFixture(t, nil)
	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)

	ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
	req.Header.Set(headerTimestamp, ts)
	req.Header.Set(headerSignature, signature.Compute(testSecret, ts, body))

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTeamJoinAcksThenDeliversWelcome(t *testing.T) {
	fx := newFixture(t, nil)
	body := []byte(`{"type":"event_callback","event":{"type":"team_join","user":{"id":"U123","name":"grace","real_name":"Grace Hopper"}}}`)

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, signedRequest(t, body))

	require.Equal(t, http.StatusOK, rr.Code, "ack must not wait for dispatch")
	require.True(t, fx.background.Drain(5*time.Second))

	entries := fx.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, deliverylog.StatusSuccess, entries[0].Status)
	assert.Equal(t, "U123", entries[0].RecipientID)
	assert.Equal(t, "Grace Hopper", entries[0].RecipientName)
}

func TestUnrecognizedEventIsAckedAndIgnored(t *testing.T) {
	fx := newFixture(t, nil)
	body := []byte(`{"type":"event_callback","event":{"type":"reaction_added"}}`)

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, signedRequest(t, body))

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, fx.background.Drain(time.Second))
	assert.Empty(t, fx.store.Entries())
}

func TestPublishWorkflow(t *testing.T) {
	fx := newFixture(t, nil)
	payload := map[string]any{
		"kind":        "workflow",
		"title":       "Deploy Guide",
		"slug":        "deploy-guide",
		"description": "Step by step",
	}
	raw, _ := json.Marshal(payload)

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/publish", bytes.NewReader(raw)))

	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	var entry deliverylog.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, deliverylog.StatusSuccess, entry.Status)
	assert.Equal(t, "#novidades", entry.RecipientID)
	assert.Greater(t, entry.PayloadBytes, 0)
}

func TestPublishValidation(t *testing.T) {
	fx := newFixture(t, nil)

	for name, payload := range map[string]string{
		"unknown kind":  `{"kind":"podcast","title":"x","slug":"x"}`,
		"missing title": `{"kind":"workflow","slug":"x"}`,
		"bad item url":  `{"kind":"news_batch","items":[{"title":"t","source":"s","url":"not-a-url"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			fx.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/publish", bytes.NewReader([]byte(payload))))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestPublishNewsBatch(t *testing.T) {
	fx := newFixture(t, nil)
	items := make([]map[string]any, 12)
	for i := range items {
		items[i] = map[string]any{
			"title":  fmt.Sprintf("Item %d", i),
			"source": "Fonte",
			"url":    "https://news.example/item",
		}
	}
	raw, _ := json.Marshal(map[string]any{"kind": "news_batch", "items": items})

	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/publish", bytes.NewReader(raw)))
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
}

func TestRecentDeliveries(t *testing.T) {
	fx := newFixture(t, nil)
	raw, _ := json.Marshal(map[string]any{"kind": "workflow", "title": "A", "slug": "a"})
	rr := httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/publish", bytes.NewReader(raw)))
	require.Equal(t, http.StatusAccepted, rr.Code)

	rr = httptest.NewRecorder()
	fx.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/deliveries/recent?limit=10", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []deliverylog.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
}

func TestMisconfiguredServiceAnswers500Everywhere(t *testing.T) {
	fx := newFixture(t, func(c *config.Config) {
		c.SigningSecret = ""
	})

	for _, target := range []string{"/slack/events", "/publish", "/deliveries/recent", "/healthz"} {
		rr := httptest.NewRecorder()
		fx.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, target, bytes.NewReader([]byte(`{}`))))
		assert.Equal(t, http.StatusInternalServerError, rr.Code, target)
	}
}
