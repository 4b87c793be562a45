package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rkjewellers/billing-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements the generic Store contract for one table
type gormStore[T any] struct {
	db       *gorm.DB
	key      string // primary key column
	resource string // name used in error messages
}

func newGormStore[T any](db *gorm.DB, key, resource string) gormStore[T] {
	return gormStore[T]{db: db, key: key, resource: resource}
}

func (s gormStore[T]) Get(ctx context.Context, id string) (*T, error) {
	var entity T
	err := conn(ctx, s.db).Where(s.key+" = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, s.resource)
	}
	return &entity, nil
}

func (s gormStore[T]) GetAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := conn(ctx, s.db).Find(&entities).Error; err != nil {
		return nil, translateError(err, s.resource)
	}
	return entities, nil
}

// Add inserts with ON CONFLICT DO NOTHING so a clash on the key or any
// unique index shows up as zero affected rows on every dialect
func (s gormStore[T]) Add(ctx context.Context, entity *T) error {
	result := conn(ctx, s.db).Clauses(clause.OnConflict{DoNothing: true}).Create(entity)
	if result.Error != nil {
		return translateError(result.Error, s.resource)
	}
	if result.RowsAffected == 0 {
		return apperror.NewConflictError(s.resource + " already exists")
	}
	return nil
}

func (s gormStore[T]) Put(ctx context.Context, entity *T) error {
	err := conn(ctx, s.db).Save(entity).Error
	return translateError(err, s.resource)
}

func (s gormStore[T]) Patch(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	db := conn(ctx, s.db)

	var existing T
	err := db.Where(s.key+" = ?", id).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFoundError(s.resource)
	}
	if err != nil {
		return nil, translateError(err, s.resource)
	}
	if len(fields) == 0 {
		return &existing, nil
	}

	if err := db.Model(&existing).Where(s.key+" = ?", id).Updates(fields).Error; err != nil {
		return nil, translateError(err, s.resource)
	}

	var updated T
	if err := db.Where(s.key+" = ?", id).First(&updated).Error; err != nil {
		return nil, translateError(err, s.resource)
	}
	return &updated, nil
}

func (s gormStore[T]) Delete(ctx context.Context, id string) error {
	var entity T
	err := conn(ctx, s.db).Where(s.key+" = ?", id).Delete(&entity).Error
	return translateError(err, s.resource)
}

func (s gormStore[T]) Clear(ctx context.Context) error {
	var entity T
	err := conn(ctx, s.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity).Error
	return translateError(err, s.resource)
}

func (s gormStore[T]) Count(ctx context.Context) (int64, error) {
	var entity T
	var total int64
	if err := conn(ctx, s.db).Model(&entity).Count(&total).Error; err != nil {
		return 0, translateError(err, s.resource)
	}
	return total, nil
}

// translateError maps driver errors onto the application error taxonomy
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.NewConflictError(resource + " already exists")
	case apperror.IsAppError(err):
		return err
	default:
		return fmt.Errorf("%s store: %w", resource, err)
	}
}
