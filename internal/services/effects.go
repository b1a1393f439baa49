package services

import (
	"context"

	"github.com/google/uuid"

	"bizledger/internal/caching"
	"bizledger/internal/common"
	"bizledger/internal/events"
	applog "bizledger/internal/log"
	"bizledger/internal/models"
)

// Effects runs the follow-ups of a committed write: audit trail, domain
// event and cache invalidation. None of them fail the write; errors are
// logged and dropped.
type Effects struct {
	audit     AuditLogsService
	publisher events.Publisher
	cache     caching.CacheService
	logger    *applog.Logger
}

// NewEffects wires the follow-ups. Any dependency may be nil.
func NewEffects(audit AuditLogsService, publisher events.Publisher, cache caching.CacheService, logger *applog.Logger) *Effects {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Effects{audit: audit, publisher: publisher, cache: cache, logger: logger.WithComponent(applog.ComponentAudit)}
}

// Audit records who did what to which record.
func (e *Effects) Audit(ctx context.Context, orgID uuid.UUID, action, entity, entityID string, details models.JSONB) {
	if e == nil || e.audit == nil {
		return
	}
	var userID *uuid.UUID
	if id, ok := common.GetUserIDFromContext(ctx); ok && id != uuid.Nil {
		userID = &id
	}
	if err := e.audit.LogActivity(ctx, orgID, userID, action, entity, entityID, details); err != nil {
		e.logger.WarnContext(ctx, "failed to write audit log",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldOperation, action+" "+entity,
			applog.FieldError, err.Error())
	}
}

// Publish emits a domain event.
func (e *Effects) Publish(ctx context.Context, eventType string, orgID uuid.UUID, payload any) {
	if e == nil || e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, orgID, payload); err != nil {
		e.logger.WarnContext(ctx, "failed to publish event",
			applog.FieldEvent, eventType,
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldError, err.Error())
	}
}

// Invalidate drops the organization's cached drafts and dashboards.
func (e *Effects) Invalidate(ctx context.Context, orgID uuid.UUID) {
	if e == nil || e.cache == nil {
		return
	}
	if err := e.cache.InvalidateOrganizationCache(ctx, orgID); err != nil {
		e.logger.WarnContext(ctx, "failed to invalidate cache",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldError, err.Error())
	}
}
