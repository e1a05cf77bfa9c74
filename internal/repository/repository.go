package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"review-backend/internal/database"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a write would violate a uniqueness rule.
var ErrDuplicate = errors.New("record already exists")

type base struct {
	db      *database.Database
	timeout time.Duration
}

func newBase(db *database.Database) base {
	return base{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// first runs a First query and maps a missing row to (false, nil).
func first(q *gorm.DB, dest interface{}) (bool, error) {
	err := q.First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ilikeContains is a case-insensitive substring condition on column; pair
// it with containsPattern.
func ilikeContains(column string) string {
	return column + ` ILIKE ? ESCAPE '\'`
}

// containsPattern matches search literally inside a LIKE pattern.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
