package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tally/contexts/field-operations/incident-tracker/domain/entities"
	domainerrors "tally/contexts/field-operations/incident-tracker/domain/errors"
	"tally/contexts/field-operations/incident-tracker/ports"

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

func (r *Repository) CreateIncident(ctx context.Context, incident entities.Incident, event *ports.FeedEvent) error {
	row := incidentModelFromEntity(incident)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return r.logError("field_repo_create_incident_failed", err, "incident_id", incident.IncidentID)
		}
		return r.insertFeedEvent(tx, event)
	})
}

func (r *Repository) GetIncident(ctx context.Context, incidentID string) (entities.Incident, error) {
	var row incidentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(incidentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Incident{}, domainerrors.ErrIncidentNotFound
		}
		return entities.Incident{}, r.logError("field_repo_get_incident_failed", err, "incident_id", strings.TrimSpace(incidentID))
	}
	return row.toEntity(), nil
}

// SaveIncident closes the incident with a guarded update: the write only
// lands while the stored row is still open, so a racing second resolve
// loses cleanly.
func (r *Repository) SaveIncident(ctx context.Context, incident entities.Incident, event *ports.FeedEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&incidentModel{}).
			Where("id = ?", incident.IncidentID).
			Where("status = ?", entities.StatusOpen).
			Updates(map[string]any{
				"status":           incident.Status,
				"resolved_by":      incident.ResolvedBy,
				"resolved_at":      incident.ResolvedAt,
				"resolution_notes": incident.ResolutionNotes,
			})
		if update.Error != nil {
			return r.logError("field_repo_save_incident_failed", update.Error, "incident_id", incident.IncidentID)
		}
		if update.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&incidentModel{}).
				Where("id = ?", incident.IncidentID).
				Count(&count).Error; err != nil {
				return r.logError("field_repo_save_incident_failed", err, "incident_id", incident.IncidentID)
			}
			if count == 0 {
				return domainerrors.ErrIncidentNotFound
			}
			return domainerrors.ErrAlreadyResolved
		}
		return r.insertFeedEvent(tx, event)
	})
}

func (r *Repository) ListIncidents(ctx context.Context, filter ports.IncidentFilter) ([]entities.Incident, error) {
	tx := r.db.WithContext(ctx).Model(&incidentModel{})
	if filter.ElectionID != "" {
		tx = tx.Where("election_id = ?", filter.ElectionID)
	}
	if filter.ScopeID != "" {
		tx = tx.Where("scope_id = ?", filter.ScopeID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		tx = tx.Where("severity = ?", filter.Severity)
	}
	if filter.Type != "" {
		tx = tx.Where("incident_type = ?", filter.Type)
	}
	var rows []incidentModel
	if err := tx.Order("reported_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("field_repo_list_incidents_failed", err)
	}
	incidents := make([]entities.Incident, 0, len(rows))
	for _, row := range rows {
		incidents = append(incidents, row.toEntity())
	}
	return incidents, nil
}

func (r *Repository) CountsByStatus(ctx context.Context, electionID string) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	tx := r.db.WithContext(ctx).Model(&incidentModel{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if electionID != "" {
		tx = tx.Where("election_id = ?", electionID)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("field_repo_count_incidents_failed", err, "election_id", electionID)
	}
	counts := map[string]int64{
		entities.StatusOpen:     0,
		entities.StatusResolved: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
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
		"module", "field-operations/incident-tracker",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("incident repository operation failed", fields...)
	return err
}

type incidentModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	ElectionID      string     `gorm:"column:election_id"`
	ScopeID         string     `gorm:"column:scope_id"`
	ScopeLevel      string     `gorm:"column:scope_level"`
	IncidentType    string     `gorm:"column:incident_type"`
	Severity        string     `gorm:"column:severity"`
	Description     string     `gorm:"column:description"`
	Status          string     `gorm:"column:status"`
	ReportedBy      string     `gorm:"column:reported_by"`
	ReportedAt      time.Time  `gorm:"column:reported_at"`
	ResolvedBy      string     `gorm:"column:resolved_by"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at"`
	ResolutionNotes string     `gorm:"column:resolution_notes"`
}

func (incidentModel) TableName() string {
	return "incidents"
}

func incidentModelFromEntity(incident entities.Incident) incidentModel {
	return incidentModel{
		ID:              incident.IncidentID,
		ElectionID:      incident.ElectionID,
		ScopeID:         incident.ScopeID,
		ScopeLevel:      incident.ScopeLevel,
		IncidentType:    incident.Type,
		Severity:        incident.Severity,
		Description:     incident.Description,
		Status:          incident.Status,
		ReportedBy:      incident.ReportedBy,
		ReportedAt:      incident.ReportedAt,
		ResolvedBy:      incident.ResolvedBy,
		ResolvedAt:      incident.ResolvedAt,
		ResolutionNotes: incident.ResolutionNotes,
	}
}

func (m incidentModel) toEntity() entities.Incident {
	return entities.Incident{
		IncidentID:      m.ID,
		ElectionID:      m.ElectionID,
		ScopeID:         m.ScopeID,
		ScopeLevel:      m.ScopeLevel,
		Type:            m.IncidentType,
		Severity:        m.Severity,
		Description:     m.Description,
		Status:          m.Status,
		ReportedBy:      m.ReportedBy,
		ReportedAt:      m.ReportedAt,
		ResolvedBy:      m.ResolvedBy,
		ResolvedAt:      m.ResolvedAt,
		ResolutionNotes: m.ResolutionNotes,
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

var _ ports.IncidentRepository = (*Repository)(nil)
