package sqlite

import (
	"context"

	"github.com/harborline/accountd/internal/accounts/domain"
)

type countersRepo struct {
	db querier
}

// NextSequence allocates the next id number for a variant in one atomic
// upsert. Concurrent callers each observe a distinct value.
func (r *countersRepo) NextSequence(ctx context.Context, variant domain.Variant) (int64, error) {
	var next int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO account_counters (variant, next) VALUES (?, 1)
		ON CONFLICT (variant) DO UPDATE SET next = next + 1
		RETURNING next`,
		string(variant)).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}
