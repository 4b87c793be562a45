package repository

import (
	"context"
	"strings"

	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// TxKey is the context key carrying the active transaction
const TxKey ctxKey = "gorm_tx"

// WithTx stores tx in ctx so repositories join the transaction
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// GetTx extracts the active transaction from context
func GetTx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TxKey).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction from ctx when there is one, else db
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := GetTx(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// SubstringScope filters rows where any of the columns contains query
// literally; % and _ in query are not wildcards.
// Columns listed in lowered are compared case-insensitively.
func SubstringScope(query string, lowered []string, exact []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		query = strings.TrimSpace(query)
		if query == "" {
			return db
		}
		var clauses []string
		var args []interface{}
		for _, col := range lowered {
			clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, "%"+escapeLike(strings.ToLower(query))+"%")
		}
		for _, col := range exact {
			clauses = append(clauses, col+" LIKE ? ESCAPE '\\'")
			args = append(args, "%"+escapeLike(query)+"%")
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match itself inside a LIKE pattern using \ as escape
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor over db
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction joins an outer transaction when ctx already carries one
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
