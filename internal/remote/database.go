package remote

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseTable adapts one GORM model to the Table capability. The hosted
// relational database is reached through whichever driver the connection was
// opened with; sqlite, postgres and mysql are all supported.
type DatabaseTable[T Row] struct {
	db     *gorm.DB
	domain string
}

// NewDatabaseTable binds a domain to the supplied database handle.
func NewDatabaseTable[T Row](db *gorm.DB, domain string) (*DatabaseTable[T], error) {
	if db == nil {
		return nil, errors.New("remote: database handle is required")
	}
	if strings.TrimSpace(domain) == "" {
		return nil, errors.New("remote: domain is required")
	}
	return &DatabaseTable[T]{db: db, domain: domain}, nil
}

// FetchAll returns every row in the domain. An unprovisioned table reads as
// an empty domain.
func (t *DatabaseTable[T]) FetchAll(ctx context.Context) ([]T, error) {
	var rows []T
	if err := t.db.WithContext(ctx).Find(&rows).Error; err != nil {
		if isMissingTable(err) {
			return []T{}, nil
		}
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Upsert inserts the row or replaces the existing row with the same key.
func (t *DatabaseTable[T]) Upsert(ctx context.Context, row T) (T, error) {
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	return row, err
}

// Delete removes the row with the given key. Deleting an absent key is not
// an error.
func (t *DatabaseTable[T]) Delete(ctx context.Context, key string) error {
	return t.db.WithContext(ctx).Delete(new(T), "id = ?", key).Error
}

// isMissingTable matches the driver-specific errors raised when the backing
// table has not been created yet.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") || // sqlite
		strings.Contains(msg, "does not exist") || // postgres
		strings.Contains(msg, "doesn't exist") || // mysql
		strings.Contains(msg, "undefined table")
}
