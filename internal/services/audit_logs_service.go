package services

import (
	"context"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
)

var auditActions = []string{
	models.ActionCreate,
	models.ActionUpdate,
	models.ActionDelete,
	models.ActionGenerate,
	models.ActionRequest,
}

type AuditLogsService interface {
	// Create audit log entry
	LogActivity(ctx context.Context, orgID uuid.UUID, userID *uuid.UUID, action, entity, entityID string, details models.JSONB) error

	// Query audit logs
	ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

// LogActivity creates a new audit log entry with validation
func (s *auditLogsService) LogActivity(ctx context.Context, orgID uuid.UUID, userID *uuid.UUID, action, entity, entityID string, details models.JSONB) error {
	if entity == "" {
		return common.Validationf("entity is required")
	}
	if err := common.ValidateOneOf(action, "action", auditActions...); err != nil {
		return err
	}

	auditLog := &models.AuditLog{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         userID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		Details:        details,
		CreatedAt:      time.Now().UTC(),
	}

	return s.auditLogsRepo.Create(ctx, auditLog)
}

// ListAuditLogs retrieves audit logs with filtering
func (s *auditLogsService) ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	if filters.Action != nil && *filters.Action != "" {
		if err := common.ValidateOneOf(*filters.Action, "action", auditActions...); err != nil {
			return nil, err
		}
	}
	if filters.Offset < 0 {
		return nil, common.Validationf("offset cannot be negative")
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultAuditLimit
	}
	if filters.Limit > maxAuditLimit {
		filters.Limit = maxAuditLimit
	}

	logs, err := s.auditLogsRepo.List(ctx, orgID, filters)
	if err != nil {
		return nil, common.SecureErrorMessage("list audit logs", err)
	}
	return logs, nil
}
