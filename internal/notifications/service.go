package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shortspulse/internal/config"
)

const userAgent = "ShortsPulse-Go/0.1.0"

// Service defines the notification surface exposed to engine components.
type Service interface {
	NotifyDiscoveryComplete(ctx context.Context, count int, windowStart time.Time) error
	NotifyNoShortsToday(ctx context.Context, windowStart time.Time) error
	NotifyFatal(ctx context.Context, err error, phase string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		discovery: cfg.Notifications.Discovery,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	discovery bool
	errors    bool
}

func (n *ntfyService) NotifyDiscoveryComplete(ctx context.Context, count int, windowStart time.Time) error {
	if !n.discovery {
		return nil
	}
	data := payload{
		title:   "ShortsPulse - Tracking Started",
		message: fmt.Sprintf("Tracking %d shorts published since %s", count, windowStart.Format("2006-01-02 15:04 MST")),
		tags:    []string{"shortspulse", "discovery", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNoShortsToday(ctx context.Context, windowStart time.Time) error {
	if !n.discovery {
		return nil
	}
	data := payload{
		title:   "ShortsPulse - Nothing To Track",
		message: fmt.Sprintf("No shorts published since %s across the configured channels", windowStart.Format("2006-01-02 15:04 MST")),
		tags:    []string{"shortspulse", "discovery", "empty"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyFatal(ctx context.Context, err error, phase string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Tracker stopped")
	if phase = strings.TrimSpace(phase); phase != "" {
		builder.WriteString(" during ")
		builder.WriteString(phase)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "ShortsPulse - Error",
		message:  builder.String(),
		tags:     []string{"shortspulse", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "ShortsPulse - Test",
		message:  "Notification system test",
		tags:     []string{"shortspulse", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDiscoveryComplete(context.Context, int, time.Time) error { return nil }
func (noopService) NotifyNoShortsToday(context.Context, time.Time) error          { return nil }
func (noopService) NotifyFatal(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
