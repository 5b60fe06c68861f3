// Package notify provides notification functionality for the journal application.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"tradergym/internal/config"
	"tradergym/internal/engine"
	"tradergym/internal/models"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendVerdict(ctx context.Context, date string, result engine.GatekeeperResult) error
	SendTiltWarning(ctx context.Context, date string, result engine.TiltResult) error
	SendDrawdownWarning(ctx context.Context, account *models.Account, result engine.DrawdownResult) error
	SendRiskSuggestion(ctx context.Context, account *models.Account, current, suggested float64) error
	SendDailySummary(ctx context.Context, summary *DailySummary) error
}

// NotificationChannel defines the interface for a notification channel.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationVerdict  NotificationType = "verdict"
	NotificationTilt     NotificationType = "tilt"
	NotificationDrawdown NotificationType = "drawdown"
	NotificationRisk     NotificationType = "risk"
	NotificationSummary  NotificationType = "summary"
)

// NotificationLevel represents the notification level filter.
type NotificationLevel string

const (
	LevelAll        NotificationLevel = "all"
	LevelAlertsOnly NotificationLevel = "alerts_only"
)

// DailySummary represents an end-of-day journal summary.
type DailySummary struct {
	Date          string
	AccountName   string
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	TotalPnL      float64
	TGScore       int
	Veto          bool
}

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []NotificationChannel
	level    NotificationLevel
	mu       sync.RWMutex
}

// formatCurrency formats a USD value with thousands separators.
func formatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	result := "$" + strings.Join(groups, ",") + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// NewMultiNotifier creates a new MultiNotifier with the given configuration.
func NewMultiNotifier(cfg *config.NotificationConfig) *MultiNotifier {
	mn := &MultiNotifier{
		channels: make([]NotificationChannel, 0),
		level:    NotificationLevel(cfg.Level),
	}

	if mn.level == "" {
		mn.level = LevelAll
	}

	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookNotifier(cfg.Webhook))
	}
	if cfg.Telegram.Enabled {
		mn.channels = append(mn.channels, NewTelegramNotifier(cfg.Telegram))
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch NotificationChannel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// shouldSend checks if a notification should be sent based on the level filter.
func (mn *MultiNotifier) shouldSend(notifType NotificationType) bool {
	if mn.level == LevelAlertsOnly {
		return notifType == NotificationVerdict || notifType == NotificationTilt || notifType == NotificationDrawdown
	}
	return true
}

// Send sends a notification to all enabled channels.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !mn.shouldSend(n.Type) {
		return nil
	}

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []string
	for _, ch := range channels {
		if ch.IsEnabled() {
			if err := ch.Send(ctx, n); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendVerdict sends the morning readiness verdict. Only Red verdicts
// go out at the alerts_only level; the type filter handles that.
func (mn *MultiNotifier) SendVerdict(ctx context.Context, date string, result engine.GatekeeperResult) error {
	emoji := "🟢"
	switch result.Verdict {
	case models.VerdictYellow:
		emoji = "🟡"
	case models.VerdictRed:
		emoji = "🔴"
	}

	title := fmt.Sprintf("%s Readiness: %s", emoji, result.Verdict)
	message := fmt.Sprintf(
		"Date: %s\nScore: %d/100\nHRV: %.0f pts | Sleep: %.0f pts | Subjective: %.0f pts",
		date, result.Score, result.HRVPoints, result.SleepPoints, result.SubjectivePoints,
	)
	if result.Verdict == models.VerdictRed {
		message += "\n\nDo not trade today."
	}

	return mn.Send(ctx, Notification{
		Type:    NotificationVerdict,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"date":    date,
			"score":   result.Score,
			"verdict": string(result.Verdict),
		},
	})
}

// SendTiltWarning sends a tilt gauge alert.
func (mn *MultiNotifier) SendTiltWarning(ctx context.Context, date string, result engine.TiltResult) error {
	title := fmt.Sprintf("⚠️ Tilt: %s (%d/100)", result.Level, result.Score)
	message := fmt.Sprintf("Date: %s\n%s\n\n%s", date, result.Label, result.Description)

	return mn.Send(ctx, Notification{
		Type:    NotificationTilt,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"date":  date,
			"score": result.Score,
			"level": string(result.Level),
		},
	})
}

// SendDrawdownWarning warns when equity closes in on the liquidation
// threshold.
func (mn *MultiNotifier) SendDrawdownWarning(ctx context.Context, account *models.Account, result engine.DrawdownResult) error {
	title := fmt.Sprintf("📉 Drawdown Warning: %s", account.Name)
	message := fmt.Sprintf(
		"Equity: %s\nLiquidation: %s\nBuffer remaining: %s",
		formatCurrency(result.CurrentEquity),
		formatCurrency(result.LiquidationPoint),
		formatCurrency(result.AvailableRiskBuffer),
	)

	return mn.Send(ctx, Notification{
		Type:    NotificationDrawdown,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"account_id":        account.ID,
			"current_equity":    result.CurrentEquity,
			"liquidation_point": result.LiquidationPoint,
			"buffer":            result.AvailableRiskBuffer,
		},
	})
}

// SendRiskSuggestion sends a drawdown-throttle daily risk suggestion.
func (mn *MultiNotifier) SendRiskSuggestion(ctx context.Context, account *models.Account, current, suggested float64) error {
	title := fmt.Sprintf("🛡 Risk Suggestion: %s", account.Name)
	message := fmt.Sprintf(
		"Current max daily risk: %s\nSuggested: %s\n\nApply with: tradergym account apply-suggestion %s",
		formatCurrency(current), formatCurrency(suggested), account.ID,
	)

	return mn.Send(ctx, Notification{
		Type:    NotificationRisk,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"account_id": account.ID,
			"current":    current,
			"suggested":  suggested,
		},
	})
}

// SendDailySummary sends an end-of-day journal summary.
func (mn *MultiNotifier) SendDailySummary(ctx context.Context, summary *DailySummary) error {
	pnlEmoji := "📊"
	if summary.TotalPnL > 0 {
		pnlEmoji = "💰"
	} else if summary.TotalPnL < 0 {
		pnlEmoji = "📉"
	}

	title := fmt.Sprintf("%s Daily Summary - %s", pnlEmoji, summary.Date)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Account: %s\n", summary.AccountName))
	sb.WriteString(fmt.Sprintf("Total Trades: %d\n", summary.TotalTrades))
	sb.WriteString(fmt.Sprintf("Winning: %d | Losing: %d\n", summary.WinningTrades, summary.LosingTrades))
	sb.WriteString(fmt.Sprintf("Net P&L: %s\n", formatCurrency(summary.TotalPnL)))
	sb.WriteString(fmt.Sprintf("TG Score: %d/100", summary.TGScore))
	if summary.Veto {
		sb.WriteString("\n🚫 Protocol violation on the day")
	}

	return mn.Send(ctx, Notification{
		Type:    NotificationSummary,
		Title:   title,
		Message: sb.String(),
		Data: map[string]interface{}{
			"date":         summary.Date,
			"account":      summary.AccountName,
			"total_trades": summary.TotalTrades,
			"total_pnl":    summary.TotalPnL,
			"tg_score":     summary.TGScore,
			"veto":         summary.Veto,
		},
	})
}

// WebhookNotifier sends notifications via HTTP webhook.
type WebhookNotifier struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the name of the notifier.
func (w *WebhookNotifier) Name() string {
	return "webhook"
}

// IsEnabled returns whether the notifier is enabled.
func (w *WebhookNotifier) IsEnabled() bool {
	return w.enabled
}

// Send sends a notification via webhook.
func (w *WebhookNotifier) Send(ctx context.Context, n Notification) error {
	if !w.enabled {
		return nil
	}

	payload := map[string]interface{}{
		"type":      n.Type,
		"title":     n.Title,
		"message":   n.Message,
		"data":      n.Data,
		"timestamp": n.Timestamp.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TraderGym/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// TelegramNotifier sends notifications via Telegram bot.
type TelegramNotifier struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
}

// NewTelegramNotifier creates a new TelegramNotifier.
func NewTelegramNotifier(cfg config.TelegramConfig) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		enabled:  cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the name of the notifier.
func (t *TelegramNotifier) Name() string {
	return "telegram"
}

// IsEnabled returns whether the notifier is enabled.
func (t *TelegramNotifier) IsEnabled() bool {
	return t.enabled
}

// Send sends a notification via Telegram.
func (t *TelegramNotifier) Send(ctx context.Context, n Notification) error {
	if !t.enabled {
		return nil
	}

	// Telegram HTML parse mode
	text := fmt.Sprintf("<b>%s</b>\n\n%s", escapeHTML(n.Title), escapeHTML(n.Message))

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)

	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// escapeHTML escapes HTML special characters for Telegram.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// NoOpNotifier is a notifier that does nothing (for testing or disabled notifications).
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send does nothing.
func (n *NoOpNotifier) Send(ctx context.Context, notif Notification) error {
	return nil
}

// SendVerdict does nothing.
func (n *NoOpNotifier) SendVerdict(ctx context.Context, date string, result engine.GatekeeperResult) error {
	return nil
}

// SendTiltWarning does nothing.
func (n *NoOpNotifier) SendTiltWarning(ctx context.Context, date string, result engine.TiltResult) error {
	return nil
}

// SendDrawdownWarning does nothing.
func (n *NoOpNotifier) SendDrawdownWarning(ctx context.Context, account *models.Account, result engine.DrawdownResult) error {
	return nil
}

// SendRiskSuggestion does nothing.
func (n *NoOpNotifier) SendRiskSuggestion(ctx context.Context, account *models.Account, current, suggested float64) error {
	return nil
}

// SendDailySummary does nothing.
func (n *NoOpNotifier) SendDailySummary(ctx context.Context, summary *DailySummary) error {
	return nil
}
