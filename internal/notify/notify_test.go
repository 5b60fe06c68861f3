package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradergym/internal/config"
	"tradergym/internal/engine"
	"tradergym/internal/models"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:        "$0.00",
		1234.5:   "$1,234.50",
		-987.25:  "-$987.25",
		50000:    "$50,000.00",
		1250000:  "$1,250,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatCurrency(in))
	}
}

func TestMultiNotifier_LevelFilter(t *testing.T) {
	mn := &MultiNotifier{level: LevelAlertsOnly}

	assert.True(t, mn.shouldSend(NotificationVerdict))
	assert.True(t, mn.shouldSend(NotificationTilt))
	assert.True(t, mn.shouldSend(NotificationDrawdown))
	assert.False(t, mn.shouldSend(NotificationSummary))
	assert.False(t, mn.shouldSend(NotificationRisk))

	mn.level = LevelAll
	assert.True(t, mn.shouldSend(NotificationSummary))
}

func TestWebhookNotifier_SendsVerdictPayload(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mn := NewMultiNotifier(&config.NotificationConfig{
		Enabled: true,
		Level:   "all",
		Webhook: config.WebhookConfig{Enabled: true, URL: srv.URL},
	})

	err := mn.SendVerdict(context.Background(), "2025-03-04", engine.GatekeeperResult{
		Score:   26,
		Verdict: models.VerdictRed,
	})
	require.NoError(t, err)

	assert.Equal(t, "verdict", received["type"])
	data := received["data"].(map[string]interface{})
	assert.Equal(t, "RED", data["verdict"])
	assert.Contains(t, received["message"], "Do not trade today")
}

func TestWebhookNotifier_PropagatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhookNotifier(config.WebhookConfig{Enabled: true, URL: srv.URL})
	err := w.Send(context.Background(), Notification{Type: NotificationTilt, Title: "t"})
	assert.Error(t, err)
}

func TestDisabledChannelsStayQuiet(t *testing.T) {
	w := NewWebhookNotifier(config.WebhookConfig{Enabled: true, URL: ""})
	assert.False(t, w.IsEnabled())

	tg := NewTelegramNotifier(config.TelegramConfig{Enabled: true})
	assert.False(t, tg.IsEnabled())

	// A NoOp notifier satisfies the full interface without side effects.
	var n Notifier = NewNoOpNotifier()
	assert.NoError(t, n.SendDailySummary(context.Background(), &DailySummary{}))
}
