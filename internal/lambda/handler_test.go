package lambda

import (
	"context"
	"log/slog"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"

	"certificate-validator/internal/config"
	"certificate-validator/internal/provider"
	"certificate-validator/internal/resources"
)

type recordingSender struct {
	urls      []string
	responses []provider.Response
	err       error
}

func (s *recordingSender) Send(ctx context.Context, url string, response *provider.Response) error {
	s.urls = append(s.urls, url)
	s.responses = append(s.responses, *response)
	return s.err
}

func withRecordingSender(t *testing.T) *recordingSender {
	t.Helper()

	sender := &recordingSender{}
	original := newSender
	newSender = func(cfg config.Config, opts Options, logger *slog.Logger) provider.Sender {
		return sender
	}
	t.Cleanup(func() { newSender = original })
	return sender
}

func handlerEvent(resourceType string, requestType provider.RequestType) provider.Event {
	return provider.Event{
		RequestType:        requestType,
		ResponseURL:        "https://cloudformation-custom-resource-response.example/callback",
		StackID:            "arn:aws:cloudformation:us-east-1:123456789012:stack/certs/abc",
		RequestID:          "11111111-2222-3333-4444-555555555555",
		ResourceType:       resourceType,
		LogicalResourceID:  "Certificate",
		ResourceProperties: map[string]any{"DomainName": "example.com"},
	}
}

func TestHandle(t *testing.T) {
	t.Run("unknown resource type fails with one delivery", func(t *testing.T) {
		sender := withRecordingSender(t)
		event := handlerEvent("Custom::Widget", provider.RequestTypeCreate)

		if err := Handle(context.Background(), event, Options{}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if len(sender.responses) != 1 {
			t.Fatalf("Expected 1 delivery, got %d", len(sender.responses))
		}
		response := sender.responses[0]
		if response.Status != provider.StatusFailed {
			t.Errorf("Expected FAILED, got %s", response.Status)
		}
		if response.Reason != "unknown ResourceType: Custom::Widget" {
			t.Errorf("Unexpected reason: %q", response.Reason)
		}
		if response.StackID != event.StackID {
			t.Errorf("Unexpected stack ID: %s", response.StackID)
		}
		if response.RequestID != event.RequestID {
			t.Errorf("Unexpected request ID: %s", response.RequestID)
		}
		if sender.urls[0] != event.ResponseURL {
			t.Errorf("Unexpected delivery URL: %s", sender.urls[0])
		}
	})

	t.Run("unknown request type fails with one delivery", func(t *testing.T) {
		sender := withRecordingSender(t)
		event := handlerEvent(resources.TypeCertificate, "Destroy")

		if err := Handle(context.Background(), event, Options{}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if len(sender.responses) != 1 {
			t.Fatalf("Expected 1 delivery, got %d", len(sender.responses))
		}
		if sender.responses[0].Status != provider.StatusFailed {
			t.Errorf("Expected FAILED, got %s", sender.responses[0].Status)
		}
		want := "Unknown RequestType: Must be one of: Create, Update, or Delete."
		if sender.responses[0].Reason != want {
			t.Errorf("Expected %q, got %q", want, sender.responses[0].Reason)
		}
	})
}

func TestNewHandler(t *testing.T) {
	logger := slog.Default()
	cfg := config.Config{}
	awsCfg := awssdk.Config{Region: "us-east-1"}

	tests := []struct {
		name         string
		resourceType string
		wantErr      bool
	}{
		{"certificate", resources.TypeCertificate, false},
		{"certificate validator", resources.TypeCertificateValidator, false},
		{"unknown type", "Custom::Widget", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := provider.NewRequest(handlerEvent(tt.resourceType, provider.RequestTypeCreate), logger)
			response := provider.NewResponse(request)

			handler, err := newHandler(request, response, awsCfg, cfg, logger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newHandler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && handler == nil {
				t.Error("Expected a handler")
			}
		})
	}
}

func TestDNSConfig(t *testing.T) {
	base := awssdk.Config{Region: "us-east-1"}

	t.Run("no role configured", func(t *testing.T) {
		got := dnsConfig(base, config.Config{}, slog.Default())

		if got.Credentials != nil {
			t.Errorf("Expected untouched credentials, got %T", got.Credentials)
		}
	})

	t.Run("role configured", func(t *testing.T) {
		got := dnsConfig(base, config.Config{Route53RoleARN: "arn:aws:iam::123456789012:role/dns-manager"}, slog.Default())

		if _, ok := got.Credentials.(*awssdk.CredentialsCache); !ok {
			t.Errorf("Expected a credentials cache, got %T", got.Credentials)
		}
		if base.Credentials != nil {
			t.Error("Expected the base configuration to be untouched")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"mixed case", "Debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"empty", "", slog.LevelInfo},
		{"unrecognized", "verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("level from event property", func(t *testing.T) {
		event := provider.Event{ResourceProperties: map[string]any{"LogLevel": "debug"}}

		logger := newLogger(event, config.Config{LogLevel: "info"})
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("Expected debug to be enabled")
		}
	})

	t.Run("falls back to configured level", func(t *testing.T) {
		logger := newLogger(provider.Event{}, config.Config{LogLevel: "error"})

		if logger.Enabled(context.Background(), slog.LevelWarn) {
			t.Error("Expected warn to be disabled")
		}
		if !logger.Enabled(context.Background(), slog.LevelError) {
			t.Error("Expected error to be enabled")
		}
	})
}
