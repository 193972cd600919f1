package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"

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

func (r *Repository) CreateSheet(ctx context.Context, sheet entities.Sheet, event *ports.FeedEvent) error {
	row, err := sheetModelFromEntity(sheet)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateScope
			}
			return r.logError("collation_repo_create_sheet_failed", err,
				"sheet_id", sheet.SheetID,
				"election_id", sheet.ElectionID,
				"scope_id", sheet.ScopeID,
			)
		}
		if err := replaceEntries(tx, sheet); err != nil {
			return r.logError("collation_repo_create_entries_failed", err, "sheet_id", sheet.SheetID)
		}
		return r.insertFeedEvent(tx, event)
	})
}

// SaveSheet is the compare-and-swap write: the update only lands when the
// stored version still matches, and the feed event shares the transaction.
func (r *Repository) SaveSheet(ctx context.Context, sheet entities.Sheet, expectedVersion int64, event *ports.FeedEvent) error {
	row, err := sheetModelFromEntity(sheet)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&resultSheetModel{}).
			Where("id = ?", sheet.SheetID).
			Where("version = ?", expectedVersion).
			Updates(row.updateColumns())
		if update.Error != nil {
			return r.logError("collation_repo_save_sheet_failed", update.Error, "sheet_id", sheet.SheetID)
		}
		if update.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&resultSheetModel{}).
				Where("id = ?", sheet.SheetID).
				Count(&count).Error; err != nil {
				return r.logError("collation_repo_save_sheet_failed", err, "sheet_id", sheet.SheetID)
			}
			if count == 0 {
				return domainerrors.ErrSheetNotFound
			}
			return domainerrors.ErrConcurrentModification
		}
		if err := replaceEntries(tx, sheet); err != nil {
			return r.logError("collation_repo_save_entries_failed", err, "sheet_id", sheet.SheetID)
		}
		return r.insertFeedEvent(tx, event)
	})
}

func (r *Repository) GetSheet(ctx context.Context, sheetID string) (entities.Sheet, error) {
	var row resultSheetModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sheetID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Sheet{}, domainerrors.ErrSheetNotFound
		}
		return entities.Sheet{}, r.logError("collation_repo_get_sheet_failed", err, "sheet_id", strings.TrimSpace(sheetID))
	}
	return r.hydrate(ctx, row)
}

func (r *Repository) GetSheetByScope(ctx context.Context, electionID string, scopeID string) (entities.Sheet, bool, error) {
	var row resultSheetModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("scope_id = ?", strings.TrimSpace(scopeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Sheet{}, false, nil
		}
		return entities.Sheet{}, false, r.logError("collation_repo_get_sheet_by_scope_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"scope_id", strings.TrimSpace(scopeID),
		)
	}
	sheet, err := r.hydrate(ctx, row)
	if err != nil {
		return entities.Sheet{}, false, err
	}
	return sheet, true, nil
}

func (r *Repository) ListSheets(ctx context.Context, filter ports.SheetFilter) ([]entities.Sheet, error) {
	tx := r.db.WithContext(ctx).Model(&resultSheetModel{}).
		Where("election_id = ?", strings.TrimSpace(filter.ElectionID))
	if strings.TrimSpace(filter.ScopeID) != "" {
		tx = tx.Where("scope_id = ?", strings.TrimSpace(filter.ScopeID))
	}
	if strings.TrimSpace(filter.ScopeLevel) != "" {
		tx = tx.Where("scope_level = ?", strings.ToLower(strings.TrimSpace(filter.ScopeLevel)))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Derived != nil {
		tx = tx.Where("derived = ?", *filter.Derived)
	}

	var rows []resultSheetModel
	if err := tx.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("collation_repo_list_sheets_failed", err,
			"election_id", strings.TrimSpace(filter.ElectionID),
		)
	}
	sheets := make([]entities.Sheet, 0, len(rows))
	for _, row := range rows {
		sheet, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func (r *Repository) hydrate(ctx context.Context, row resultSheetModel) (entities.Sheet, error) {
	var entryRows []sheetEntryModel
	err := r.db.WithContext(ctx).
		Where("sheet_id = ?", row.ID).
		Order("position_id ASC, candidate_id ASC").
		Find(&entryRows).
		Error
	if err != nil {
		return entities.Sheet{}, r.logError("collation_repo_load_entries_failed", err, "sheet_id", row.ID)
	}
	return row.toEntity(entryRows)
}

func replaceEntries(tx *gorm.DB, sheet entities.Sheet) error {
	if err := tx.Where("sheet_id = ?", sheet.SheetID).Delete(&sheetEntryModel{}).Error; err != nil {
		return err
	}
	if len(sheet.Entries) == 0 {
		return nil
	}
	rows := make([]sheetEntryModel, 0, len(sheet.Entries))
	for _, entry := range sheet.Entries {
		rows = append(rows, sheetEntryModel{
			SheetID:       sheet.SheetID,
			PositionID:    entry.PositionID,
			CandidateID:   entry.CandidateID,
			Votes:         entry.Votes,
			VotesInWords:  entry.VotesInWords,
			WordsMismatch: entry.WordsMismatch,
		})
	}
	return tx.Create(&rows).Error
}

func (r *Repository) insertFeedEvent(tx *gorm.DB, event *ports.FeedEvent) error {
	if event == nil {
		return nil
	}
	row, err := feedEventModelFromPort(*event)
	if err != nil {
		return err
	}
	if err := tx.Create(&row).Error; err != nil {
		return r.logError("collation_repo_append_feed_failed", err, "event_id", event.EventID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "results-collation/result-sheet-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("result sheet repository operation failed", fields...)
	return err
}

type resultSheetModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	ElectionID         string     `gorm:"column:election_id"`
	ScopeID            string     `gorm:"column:scope_id"`
	ScopeLevel         string     `gorm:"column:scope_level"`
	Derived            bool       `gorm:"column:derived"`
	Status             string     `gorm:"column:status"`
	RegisteredVoters   int64      `gorm:"column:registered_voters"`
	VotesCast          int64      `gorm:"column:votes_cast"`
	ValidVotes         int64      `gorm:"column:valid_votes"`
	RejectedVotes      int64      `gorm:"column:rejected_votes"`
	TotalsSet          bool       `gorm:"column:totals_set"`
	TotalsFlagged      bool       `gorm:"column:totals_flagged"`
	CreatedBy          string     `gorm:"column:created_by"`
	SubmittedBy        string     `gorm:"column:submitted_by"`
	SubmittedAt        *time.Time `gorm:"column:submitted_at"`
	VerifiedBy         string     `gorm:"column:verified_by"`
	VerifiedAt         *time.Time `gorm:"column:verified_at"`
	VerificationNotes  string     `gorm:"column:verification_notes"`
	ApprovedBy         string     `gorm:"column:approved_by"`
	ApprovedAt         *time.Time `gorm:"column:approved_at"`
	ApprovalNotes      string     `gorm:"column:approval_notes"`
	CertifiedBy        string     `gorm:"column:certified_by"`
	CertifiedAt        *time.Time `gorm:"column:certified_at"`
	CertificationNotes string     `gorm:"column:certification_notes"`
	RejectionReason    string     `gorm:"column:rejection_reason"`
	RejectionCount     int        `gorm:"column:rejection_count"`
	RejectionHistory   []byte     `gorm:"column:rejection_history"`
	Version            int64      `gorm:"column:version"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (resultSheetModel) TableName() string {
	return "result_sheets"
}

func (m resultSheetModel) updateColumns() map[string]any {
	return map[string]any{
		"status":              m.Status,
		"registered_voters":   m.RegisteredVoters,
		"votes_cast":          m.VotesCast,
		"valid_votes":         m.ValidVotes,
		"rejected_votes":      m.RejectedVotes,
		"totals_set":          m.TotalsSet,
		"totals_flagged":      m.TotalsFlagged,
		"submitted_by":        m.SubmittedBy,
		"submitted_at":        m.SubmittedAt,
		"verified_by":         m.VerifiedBy,
		"verified_at":         m.VerifiedAt,
		"verification_notes":  m.VerificationNotes,
		"approved_by":         m.ApprovedBy,
		"approved_at":         m.ApprovedAt,
		"approval_notes":      m.ApprovalNotes,
		"certified_by":        m.CertifiedBy,
		"certified_at":        m.CertifiedAt,
		"certification_notes": m.CertificationNotes,
		"rejection_reason":    m.RejectionReason,
		"rejection_count":     m.RejectionCount,
		"rejection_history":   m.RejectionHistory,
		"version":             m.Version,
		"updated_at":          m.UpdatedAt,
	}
}

func sheetModelFromEntity(sheet entities.Sheet) (resultSheetModel, error) {
	history, err := json.Marshal(sheet.Rejections)
	if err != nil {
		return resultSheetModel{}, err
	}
	return resultSheetModel{
		ID:                 sheet.SheetID,
		ElectionID:         sheet.ElectionID,
		ScopeID:            sheet.ScopeID,
		ScopeLevel:         sheet.ScopeLevel,
		Derived:            sheet.Derived,
		Status:             string(sheet.Status),
		RegisteredVoters:   sheet.Totals.RegisteredVoters,
		VotesCast:          sheet.Totals.VotesCast,
		ValidVotes:         sheet.Totals.ValidVotes,
		RejectedVotes:      sheet.Totals.RejectedVotes,
		TotalsSet:          sheet.TotalsSet,
		TotalsFlagged:      sheet.TotalsFlagged,
		CreatedBy:          sheet.CreatedBy,
		SubmittedBy:        sheet.SubmittedBy,
		SubmittedAt:        sheet.SubmittedAt,
		VerifiedBy:         sheet.VerifiedBy,
		VerifiedAt:         sheet.VerifiedAt,
		VerificationNotes:  sheet.VerificationNotes,
		ApprovedBy:         sheet.ApprovedBy,
		ApprovedAt:         sheet.ApprovedAt,
		ApprovalNotes:      sheet.ApprovalNotes,
		CertifiedBy:        sheet.CertifiedBy,
		CertifiedAt:        sheet.CertifiedAt,
		CertificationNotes: sheet.CertificationNotes,
		RejectionReason:    sheet.RejectionReason,
		RejectionCount:     sheet.RejectionCount,
		RejectionHistory:   history,
		Version:            sheet.Version,
		CreatedAt:          sheet.CreatedAt,
		UpdatedAt:          sheet.UpdatedAt,
	}, nil
}

func (m resultSheetModel) toEntity(entryRows []sheetEntryModel) (entities.Sheet, error) {
	var history []entities.RejectionRecord
	if len(m.RejectionHistory) > 0 {
		if err := json.Unmarshal(m.RejectionHistory, &history); err != nil {
			return entities.Sheet{}, err
		}
	}
	entries := make([]entities.Entry, 0, len(entryRows))
	for _, row := range entryRows {
		entries = append(entries, entities.Entry{
			PositionID:    row.PositionID,
			CandidateID:   row.CandidateID,
			Votes:         row.Votes,
			VotesInWords:  row.VotesInWords,
			WordsMismatch: row.WordsMismatch,
		})
	}
	return entities.Sheet{
		SheetID:    m.ID,
		ElectionID: m.ElectionID,
		ScopeID:    m.ScopeID,
		ScopeLevel: m.ScopeLevel,
		Derived:    m.Derived,
		Status:     entities.SheetStatus(m.Status),
		Entries:    entries,
		Totals: entities.Totals{
			RegisteredVoters: m.RegisteredVoters,
			VotesCast:        m.VotesCast,
			ValidVotes:       m.ValidVotes,
			RejectedVotes:    m.RejectedVotes,
		},
		TotalsSet:          m.TotalsSet,
		TotalsFlagged:      m.TotalsFlagged,
		CreatedBy:          m.CreatedBy,
		SubmittedBy:        m.SubmittedBy,
		SubmittedAt:        m.SubmittedAt,
		VerifiedBy:         m.VerifiedBy,
		VerifiedAt:         m.VerifiedAt,
		VerificationNotes:  m.VerificationNotes,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		ApprovalNotes:      m.ApprovalNotes,
		CertifiedBy:        m.CertifiedBy,
		CertifiedAt:        m.CertifiedAt,
		CertificationNotes: m.CertificationNotes,
		RejectionReason:    m.RejectionReason,
		RejectionCount:     m.RejectionCount,
		Rejections:         history,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

type sheetEntryModel struct {
	SheetID       string `gorm:"column:sheet_id;primaryKey"`
	PositionID    string `gorm:"column:position_id;primaryKey"`
	CandidateID   string `gorm:"column:candidate_id;primaryKey"`
	Votes         int64  `gorm:"column:votes"`
	VotesInWords  string `gorm:"column:votes_in_words"`
	WordsMismatch bool   `gorm:"column:words_mismatch"`
}

func (sheetEntryModel) TableName() string {
	return "result_sheet_entries"
}

type feedEventModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	ElectionID  string     `gorm:"column:election_id"`
	ActorID     string     `gorm:"column:actor_id"`
	Action      string     `gorm:"column:action"`
	ScopeID     string     `gorm:"column:scope_id"`
	ScopeLevel  string     `gorm:"column:scope_level"`
	SheetID     *string    `gorm:"column:sheet_id"`
	Metadata    []byte     `gorm:"column:metadata"`
	Published   bool       `gorm:"column:published"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	PerformedAt time.Time  `gorm:"column:performed_at"`
}

func (m feedEventModel) toPort() (ports.FeedEvent, error) {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return ports.FeedEvent{}, err
		}
	}
	sheetID := ""
	if m.SheetID != nil {
		sheetID = *m.SheetID
	}
	return ports.FeedEvent{
		EventID:     m.ID,
		ElectionID:  m.ElectionID,
		ActorID:     m.ActorID,
		Action:      m.Action,
		ScopeID:     m.ScopeID,
		ScopeLevel:  m.ScopeLevel,
		SheetID:     sheetID,
		Metadata:    metadata,
		PerformedAt: m.PerformedAt,
	}, nil
}

func (feedEventModel) TableName() string {
	return "live_feed_events"
}

func feedEventModelFromPort(event ports.FeedEvent) (feedEventModel, error) {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return feedEventModel{}, err
	}
	var sheetID *string
	if strings.TrimSpace(event.SheetID) != "" {
		value := event.SheetID
		sheetID = &value
	}
	return feedEventModel{
		ID:          event.EventID,
		ElectionID:  event.ElectionID,
		ActorID:     event.ActorID,
		Action:      event.Action,
		ScopeID:     event.ScopeID,
		ScopeLevel:  event.ScopeLevel,
		SheetID:     sheetID,
		Metadata:    metadata,
		Published:   false,
		PerformedAt: event.PerformedAt,
	}, nil
}

func (r *Repository) ListUnpublishedFeedEvents(ctx context.Context, limit int) ([]ports.FeedEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []feedEventModel
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("performed_at ASC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("collation_repo_list_unpublished_failed", err)
	}
	events := make([]ports.FeedEvent, 0, len(rows))
	for _, row := range rows {
		event, err := row.toPort()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *Repository) MarkFeedEventPublished(ctx context.Context, eventID string, publishedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&feedEventModel{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"published":    true,
			"published_at": publishedAt,
		}).
		Error
	if err != nil {
		return r.logError("collation_repo_mark_published_failed", err, "event_id", eventID)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.SheetRepository      = (*Repository)(nil)
	_ ports.FeedOutboxRepository = (*Repository)(nil)
)
