package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shortspulse/internal/config"
	"shortspulse/internal/notifications"
)

var windowStart = time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDiscoveryComplete(context.Background(), 3, windowStart); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "discovery complete",
			notify: func(svc notifications.Service) error {
				return svc.NotifyDiscoveryComplete(context.Background(), 7, windowStart)
			},
			expectTitle:   "ShortsPulse - Tracking Started",
			expectMessage: "Tracking 7 shorts published since 2026-03-09 18:30 UTC",
			expectTags:    "shortspulse,discovery,completed",
		},
		{
			name: "no shorts today",
			notify: func(svc notifications.Service) error {
				return svc.NotifyNoShortsToday(context.Background(), windowStart)
			},
			expectTitle:   "ShortsPulse - Nothing To Track",
			expectMessage: "No shorts published since 2026-03-09 18:30 UTC across the configured channels",
			expectTags:    "shortspulse,discovery,empty",
		},
		{
			name: "fatal error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyFatal(context.Background(), errors.New("quota exhausted"), "sampling")
			},
			expectTitle:    "ShortsPulse - Error",
			expectMessage:  "Tracker stopped during sampling: quota exhausted",
			expectTags:     "shortspulse,error,alert",
			expectPriority: "high",
		},
		{
			name: "test notification",
			notify: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "ShortsPulse - Test",
			expectMessage:  "Notification system test",
			expectTags:     "shortspulse,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Discovery = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Discovery = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDiscoveryComplete(context.Background(), 1, windowStart); err != nil {
		t.Fatalf("disabled discovery event should be silent, got %v", err)
	}
	if err := svc.NotifyNoShortsToday(context.Background(), windowStart); err != nil {
		t.Fatalf("disabled discovery event should be silent, got %v", err)
	}
	if err := svc.NotifyFatal(context.Background(), errors.New("boom"), "discovery"); err != nil {
		t.Fatalf("disabled error event should be silent, got %v", err)
	}
}

func TestNtfyServiceSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Errors = true

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyFatal(context.Background(), errors.New("boom"), "sampling"); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}
