package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInUse is returned when a delete would orphan referencing rows
var ErrInUse = errors.New("record is still referenced")

// existsBy reports whether another T row has column = value. excludeID
// skips the row being updated.
func existsBy[T any](ctx context.Context, db *gorm.DB, column string, value any, excludeID uint) (bool, error) {
	var zero T
	q := db.WithContext(ctx).Model(&zero).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// countIDs counts how many of ids exist as T rows
func countIDs[T any](ctx context.Context, db *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var zero T
	var n int64
	err := db.WithContext(ctx).Model(&zero).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

// requireAll fails with gorm.ErrRecordNotFound unless every id exists
func requireAll[T any](ctx context.Context, db *gorm.DB, ids []uint) error {
	ids = uniqueIDs(ids)
	n, err := countIDs[T](ctx, db, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
