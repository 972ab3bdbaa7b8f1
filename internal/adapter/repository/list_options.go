package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

// translateError maps gorm sentinels onto the domain repository
// sentinels so usecases never import gorm.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}

// applySort adds ORDER BY clauses from a comma-separated sort spec
// where a "-" prefix means descending. Column names are restricted to
// plain identifiers; anything else is ignored.
func applySort(db *gorm.DB, sort, fallback string) *gorm.DB {
	applied := false
	for _, col := range strings.Split(sort, ",") {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		dir := " ASC"
		if strings.HasPrefix(col, "-") {
			col = col[1:]
			dir = " DESC"
		}
		if !isIdentifier(col) {
			continue
		}
		db = db.Order(col + dir)
		applied = true
	}
	if !applied && fallback != "" {
		db = db.Order(fallback)
	}
	return db
}

// applySearch adds a case-insensitive substring match across the given
// columns.
func applySearch(db *gorm.DB, term string, columns ...string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + term + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

// applyPagination adds LIMIT/OFFSET from normalized options.
func applyPagination(db *gorm.DB, opts *query.Options) *gorm.DB {
	return db.Limit(opts.Limit).Offset(opts.Offset())
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
