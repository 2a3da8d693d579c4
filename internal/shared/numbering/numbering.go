package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Generator issues sequential, year-scoped document numbers of the form
// PREFIX-YYYY-NNNNN. Redis INCR keeps the sequence collision-free under
// concurrent callers; when redis is unavailable it falls back to a MAX()
// scan on the target table, which is safe only under low contention.
type Generator struct {
	rdb *redis.Client
	db  *gorm.DB
}

func NewGenerator(rdb *redis.Client, db *gorm.DB) *Generator {
	return &Generator{rdb: rdb, db: db}
}

// Next returns the next number for a prefix within the current year.
// table and column name the fallback source, e.g. ("store_purchase_orders", "po_number").
func (g *Generator) Next(ctx context.Context, prefix, table, column string) (string, error) {
	year := time.Now().Format("2006")

	if g.rdb != nil {
		key := fmt.Sprintf("store:seq:%s:%s", prefix, year)
		seq, err := g.rdb.Incr(ctx, key).Result()
		if err == nil {
			// First caller of the year seeds the counter from the table so
			// redis restarts never reissue numbers.
			if seq == 1 && g.db != nil {
				dbSeq, seedErr := g.maxSequence(ctx, prefix, year, table, column)
				if seedErr == nil && dbSeq > 0 {
					seq = dbSeq + 1
					g.rdb.Set(ctx, key, seq, 0)
				}
			}
			return fmt.Sprintf("%s-%s-%05d", prefix, year, seq), nil
		}
	}

	seq, err := g.maxSequence(ctx, prefix, year, table, column)
	if err != nil {
		return "", fmt.Errorf("generate %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, year, seq+1), nil
}

func (g *Generator) maxSequence(ctx context.Context, prefix, year, table, column string) (int64, error) {
	var maxCode string
	pattern := fmt.Sprintf("%s-%s-", prefix, year)
	err := g.db.WithContext(ctx).
		Table(table).
		Select(fmt.Sprintf("COALESCE(MAX(%s), '')", column)).
		Where(column+" LIKE ?", pattern+"%").
		Scan(&maxCode).Error
	if err != nil {
		return 0, err
	}

	var seq int64
	if maxCode != "" {
		fmt.Sscanf(maxCode, prefix+"-"+year+"-%05d", &seq)
	}
	return seq, nil
}
