package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bizledger/internal/models"
)

type AuditLogsRepository interface {
	// Create a new audit log entry
	Create(ctx context.Context, auditLog *models.AuditLog) error

	// List audit logs with filtering options, newest first
	List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DBTX
}

func NewAuditLogsRepo(db DBTX) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.CreatedAt = time.Now().UTC()
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	var details []byte
	if auditLog.Details != nil {
		var err error
		details, err = json.Marshal(auditLog.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, organization_id, user_id, action, entity, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		auditLog.ID,
		auditLog.OrganizationID,
		auditLog.UserID,
		auditLog.Action,
		auditLog.Entity,
		auditLog.EntityID,
		details,
		auditLog.CreatedAt,
	)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}

	query := `
		SELECT id, organization_id, user_id, action, entity, entity_id, details, created_at
		FROM audit_logs
		WHERE organization_id = $1`
	args := []interface{}{orgID}

	if filters.Entity != nil {
		args = append(args, *filters.Entity)
		query += fmt.Sprintf(" AND entity = $%d", len(args))
	}
	if filters.EntityID != nil {
		args = append(args, *filters.EntityID)
		query += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	if filters.Action != nil {
		args = append(args, *filters.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filters.Offset > 0 {
			args = append(args, filters.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auditLogs := []*models.AuditLog{}
	for rows.Next() {
		auditLog := &models.AuditLog{}
		var details []byte
		if err := rows.Scan(
			&auditLog.ID,
			&auditLog.OrganizationID,
			&auditLog.UserID,
			&auditLog.Action,
			&auditLog.Entity,
			&auditLog.EntityID,
			&details,
			&auditLog.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(details) > 0 {
			if err := json.Unmarshal(details, &auditLog.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal details: %w", err)
			}
		}
		auditLogs = append(auditLogs, auditLog)
	}

	return auditLogs, rows.Err()
}
