package repository

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LinkRepository interface {
	BaseRepository[models.EntityLink]
	ListIncoming(ctx context.Context, target models.EntityRef) ([]models.EntityLink, error)
	ListOutgoing(ctx context.Context, source models.EntityRef) ([]models.EntityLink, error)

	// UpsertDisplay writes the override keyed by target, source and property key
	// and reloads d from the stored row.
	UpsertDisplay(ctx context.Context, d *models.InheritedDisplay) error
	// EnsureDisplay inserts d unless an override already exists for its key.
	EnsureDisplay(ctx context.Context, d *models.InheritedDisplay) error
	ListDisplay(ctx context.Context, target models.EntityRef) ([]models.InheritedDisplay, error)
}

type linkRepository struct {
	BaseRepository[models.EntityLink]
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{BaseRepository: NewBaseRepository[models.EntityLink](db, "link not found"), db: db}
}

func (r *linkRepository) Create(ctx context.Context, l *models.EntityLink) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			return appErr.Wrap(err, appErr.CodeConflict, appErr.MsgLinkExists)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "create link failed")
	}
	return nil
}

func (r *linkRepository) ListIncoming(ctx context.Context, target models.EntityRef) ([]models.EntityLink, error) {
	return findAll[models.EntityLink](ctx, r.db, "created_at ASC", "target_type = ? AND target_id = ?", target.Type, target.ID)
}

func (r *linkRepository) ListOutgoing(ctx context.Context, source models.EntityRef) ([]models.EntityLink, error) {
	return findAll[models.EntityLink](ctx, r.db, "created_at ASC", "source_type = ? AND source_id = ?", source.Type, source.ID)
}

var displayKey = []clause.Column{
	{Name: "target_type"}, {Name: "target_id"}, {Name: "source_type"}, {Name: "source_id"}, {Name: "property_key"},
}

func (r *linkRepository) UpsertDisplay(ctx context.Context, d *models.InheritedDisplay) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   displayKey,
		DoUpdates: clause.AssignmentColumns([]string{"is_visible", "updated_at"}),
	}).Create(d).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert inherited display failed")
	}
	var stored models.InheritedDisplay
	err = r.db.WithContext(ctx).Where(
		"target_type = ? AND target_id = ? AND source_type = ? AND source_id = ? AND property_key = ?",
		d.TargetType, d.TargetID, d.SourceType, d.SourceID, d.PropertyKey,
	).First(&stored).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "reload inherited display failed")
	}
	*d = stored
	return nil
}

func (r *linkRepository) EnsureDisplay(ctx context.Context, d *models.InheritedDisplay) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{Columns: displayKey, DoNothing: true}).Create(d).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "insert inherited display failed")
	}
	return nil
}

func (r *linkRepository) ListDisplay(ctx context.Context, target models.EntityRef) ([]models.InheritedDisplay, error) {
	return findAll[models.InheritedDisplay](ctx, r.db, "created_at ASC", "target_type = ? AND target_id = ?", target.Type, target.ID)
}
