package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/events"
	"github.com/spec-kit/jwt-demo/internal/observability"
)

// AuditService records authentication events to the log and metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventTokenIssued, a.handleTokenIssued)
	a.dispatcher.Subscribe(events.EventTokenRejected, a.handleTokenRejected)
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.metrics.RecordAuthOutcome(string(event.Type), "")
	a.logger.Info("LoginSucceeded",
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("remote_ip", event.RemoteIP))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.LoginFailedPayload)
	a.metrics.RecordAuthOutcome(string(event.Type), payload.Reason)
	a.logger.Warn("LoginFailed",
		zap.String("event_id", event.ID),
		zap.String("username", payload.Username),
		zap.String("reason", payload.Reason),
		zap.String("remote_ip", event.RemoteIP))
	return nil
}

func (a *AuditService) handleTokenIssued(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TokenIssuedPayload)
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("token_id", payload.TokenID),
	}
	if payload.ExpiresAt != nil {
		fields = append(fields, zap.Time("expires_at", *payload.ExpiresAt))
	}
	a.logger.Debug("TokenIssued", fields...)
	return nil
}

func (a *AuditService) handleTokenRejected(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TokenRejectedPayload)
	a.metrics.RecordAuthOutcome(string(event.Type), payload.Reason)
	a.logger.Info("TokenRejected",
		zap.String("event_id", event.ID),
		zap.String("reason", payload.Reason),
		zap.String("path", payload.Path),
		zap.String("remote_ip", event.RemoteIP))
	return nil
}
