package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tally/contexts/field-operations/officer-registry/domain/entities"
	domainerrors "tally/contexts/field-operations/officer-registry/domain/errors"
	"tally/contexts/field-operations/officer-registry/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateOfficer(ctx context.Context, officer entities.Officer) error {
	row := officerModel{
		ID:        officer.OfficerID,
		FullName:  officer.FullName,
		Phone:     officer.Phone,
		Email:     officer.Email,
		CreatedAt: officer.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateOfficer
		}
		return r.logError("field_repo_create_officer_failed", err, "officer_id", officer.OfficerID)
	}
	return nil
}

func (r *Repository) GetOfficer(ctx context.Context, officerID string) (entities.Officer, error) {
	var row officerModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(officerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Officer{}, domainerrors.ErrOfficerNotFound
		}
		return entities.Officer{}, r.logError("field_repo_get_officer_failed", err, "officer_id", strings.TrimSpace(officerID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOfficers(ctx context.Context) ([]entities.Officer, error) {
	var rows []officerModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("field_repo_list_officers_failed", err)
	}
	officers := make([]entities.Officer, 0, len(rows))
	for _, row := range rows {
		officers = append(officers, row.toEntity())
	}
	return officers, nil
}

// CreateAssignment inserts the assignment and relies on the partial unique
// indexes over active rows for exclusivity, so concurrent assigns are
// decided by the database, not by a read-then-write. Three indexes back
// this: uq_assignments_scope_role_active (one holder per scope for an
// exclusive role), uq_assignments_officer_excl_active (one exclusive post
// per officer), and uq_assignments_officer_scope_active (one active
// assignment per officer and scope, whatever the role).
func (r *Repository) CreateAssignment(ctx context.Context, assignment entities.Assignment, event *ports.FeedEvent) error {
	row := assignmentModelFromEntity(assignment)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if strings.Contains(pgErr.ConstraintName, "officer") {
					return domainerrors.ErrOfficerAlreadyAssigned
				}
				return domainerrors.ErrScopeAlreadyAssigned
			}
			return r.logError("field_repo_create_assignment_failed", err,
				"assignment_id", assignment.AssignmentID,
				"officer_id", assignment.OfficerID,
				"scope_id", assignment.ScopeID,
			)
		}
		return r.insertFeedEvent(tx, event)
	})
}

func (r *Repository) GetAssignment(ctx context.Context, assignmentID string) (entities.Assignment, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(assignmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assignment{}, domainerrors.ErrAssignmentNotFound
		}
		return entities.Assignment{}, r.logError("field_repo_get_assignment_failed", err, "assignment_id", strings.TrimSpace(assignmentID))
	}
	return row.toEntity(), nil
}

func (r *Repository) EndAssignment(ctx context.Context, assignment entities.Assignment, event *ports.FeedEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&assignmentModel{}).
			Where("id = ?", assignment.AssignmentID).
			Where("active = ?", true).
			Updates(map[string]any{
				"active":   false,
				"ended_by": assignment.EndedBy,
				"ended_at": assignment.EndedAt,
			})
		if update.Error != nil {
			return r.logError("field_repo_end_assignment_failed", update.Error, "assignment_id", assignment.AssignmentID)
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrAssignmentEnded
		}
		return r.insertFeedEvent(tx, event)
	})
}

func (r *Repository) ListAssignments(ctx context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	tx := r.db.WithContext(ctx).Model(&assignmentModel{})
	if filter.ElectionID != "" {
		tx = tx.Where("election_id = ?", filter.ElectionID)
	}
	if filter.OfficerID != "" {
		tx = tx.Where("officer_id = ?", filter.OfficerID)
	}
	if filter.ScopeID != "" {
		tx = tx.Where("scope_id = ?", filter.ScopeID)
	}
	if filter.Role != "" {
		tx = tx.Where("role = ?", filter.Role)
	}
	if filter.ActiveOnly {
		tx = tx.Where("active = ?", true)
	}
	var rows []assignmentModel
	if err := tx.Order("assigned_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("field_repo_list_assignments_failed", err)
	}
	assignments := make([]entities.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toEntity())
	}
	return assignments, nil
}

func (r *Repository) insertFeedEvent(tx *gorm.DB, event *ports.FeedEvent) error {
	if event == nil {
		return nil
	}
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}
	row := feedEventModel{
		ID:          event.EventID,
		ElectionID:  event.ElectionID,
		ActorID:     event.ActorID,
		Action:      event.Action,
		ScopeID:     event.ScopeID,
		ScopeLevel:  event.ScopeLevel,
		Metadata:    metadata,
		Published:   false,
		PerformedAt: event.PerformedAt,
	}
	if err := tx.Create(&row).Error; err != nil {
		return r.logError("field_repo_append_feed_failed", err, "event_id", event.EventID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "field-operations/officer-registry",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("officer registry repository operation failed", fields...)
	return err
}

type officerModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	FullName  string    `gorm:"column:full_name"`
	Phone     string    `gorm:"column:phone"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (officerModel) TableName() string {
	return "officers"
}

func (m officerModel) toEntity() entities.Officer {
	return entities.Officer{
		OfficerID: m.ID,
		FullName:  m.FullName,
		Phone:     m.Phone,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

type assignmentModel struct {
	ID         string     `gorm:"column:id;primaryKey"`
	ElectionID string     `gorm:"column:election_id"`
	OfficerID  string     `gorm:"column:officer_id"`
	ScopeID    string     `gorm:"column:scope_id"`
	ScopeLevel string     `gorm:"column:scope_level"`
	Role       string     `gorm:"column:role"`
	Active     bool       `gorm:"column:active"`
	AssignedBy string     `gorm:"column:assigned_by"`
	AssignedAt time.Time  `gorm:"column:assigned_at"`
	EndedBy    string     `gorm:"column:ended_by"`
	EndedAt    *time.Time `gorm:"column:ended_at"`
}

func (assignmentModel) TableName() string {
	return "officer_assignments"
}

func assignmentModelFromEntity(assignment entities.Assignment) assignmentModel {
	return assignmentModel{
		ID:         assignment.AssignmentID,
		ElectionID: assignment.ElectionID,
		OfficerID:  assignment.OfficerID,
		ScopeID:    assignment.ScopeID,
		ScopeLevel: assignment.ScopeLevel,
		Role:       assignment.Role,
		Active:     assignment.Active,
		AssignedBy: assignment.AssignedBy,
		AssignedAt: assignment.AssignedAt,
		EndedBy:    assignment.EndedBy,
		EndedAt:    assignment.EndedAt,
	}
}

func (m assignmentModel) toEntity() entities.Assignment {
	return entities.Assignment{
		AssignmentID: m.ID,
		ElectionID:   m.ElectionID,
		OfficerID:    m.OfficerID,
		ScopeID:      m.ScopeID,
		ScopeLevel:   m.ScopeLevel,
		Role:         m.Role,
		Active:       m.Active,
		AssignedBy:   m.AssignedBy,
		AssignedAt:   m.AssignedAt,
		EndedBy:      m.EndedBy,
		EndedAt:      m.EndedAt,
	}
}

type feedEventModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id"`
	ActorID     string    `gorm:"column:actor_id"`
	Action      string    `gorm:"column:action"`
	ScopeID     string    `gorm:"column:scope_id"`
	ScopeLevel  string    `gorm:"column:scope_level"`
	Metadata    []byte    `gorm:"column:metadata"`
	Published   bool      `gorm:"column:published"`
	PerformedAt time.Time `gorm:"column:performed_at"`
}

func (feedEventModel) TableName() string {
	return "live_feed_events"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.OfficerRepository    = (*Repository)(nil)
	_ ports.AssignmentRepository = (*Repository)(nil)
)
