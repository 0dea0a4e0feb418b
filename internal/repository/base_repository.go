package repository

import (
	"context"
	"errors"
	"fmt"

	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
}

type baseRepository[T any] struct {
	db       *gorm.DB
	notFound string
}

// NewBaseRepository builds CRUD over T. notFound is the message returned when a
// lookup by id misses.
func NewBaseRepository[T any](db *gorm.DB, notFound string) BaseRepository[T] {
	return &baseRepository[T]{db: db, notFound: notFound}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return translate(err, "create entity failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, r.notFound)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get entity failed")
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return translate(err, "update entity failed")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete entity failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("%s: %v", r.notFound, id))
	}
	return nil
}

// translate maps unique violations to conflict and everything else to internal.
func translate(err error, message string) error {
	if isUniqueViolation(err) {
		return appErr.Wrap(err, appErr.CodeConflict, "record already exists")
	}
	return appErr.Wrap(err, appErr.CodeInternal, message)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// findAll loads every T matching query, ordered by order.
func findAll[T any](ctx context.Context, db *gorm.DB, order string, query string, args ...any) ([]T, error) {
	var out []T
	if err := db.WithContext(ctx).Where(query, args...).Order(order).Find(&out).Error; err != nil {
		var t T
		return nil, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("list %T failed", t))
	}
	return out, nil
}
