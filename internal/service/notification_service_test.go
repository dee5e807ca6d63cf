package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
)

func TestNotificationServiceLogsOwnerEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/helpdesk",
	}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventClosureRequested,
		TicketID: "t1",
		Payload:  events.StatusChangedPayload{OwnerID: "u1"},
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	entries := logs.FilterMessage(string(events.EventClosureRequested)).All()
	if len(entries) != 1 || entries[0].ContextMap()["owner_id"] != "u1" {
		t.Fatalf("unexpected log entries %+v", entries)
	}
	if logs.FilterMessage("sendEmailNotificationStub").Len() != 1 || logs.FilterMessage("sendWebhookNotificationStub").Len() != 1 {
		t.Fatalf("expected both stubs to run, got %d entries", logs.Len())
	}
}
