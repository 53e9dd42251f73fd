package postgres

import (
	"context"
	"fmt"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements EntryStorage over a single food_entries table that
// mirrors the composite-key layout: pk/sk text columns, item data alongside.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

const foodColumns = `pk, sk, entity_type, food_id, user_id, name, protein, carbs, fats, calories, entry_date, ts, created_at, updated_at`

func (p *PostgresStorage) PutIfAbsent(ctx context.Context, rec *storage.FoodRecord) error {
	// ON CONFLICT DO NOTHING is the conditional put: zero rows affected
	// means the key was already taken.
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO food_entries (`+foodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (pk, sk) DO NOTHING
	`, rec.PK, rec.SK, rec.EntityType, rec.FoodID, rec.UserID, rec.Name,
		rec.Protein, rec.Carbs, rec.Fats, rec.Calories, rec.Date, rec.Timestamp,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert food entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrKeyExists
	}
	return nil
}

func (p *PostgresStorage) QueryPrefix(ctx context.Context, pk, skPrefix string, ascending bool) ([]storage.FoodRecord, error) {
	// Sort keys contain only [A-Za-z0-9#-], so the prefix needs no LIKE
	// escaping.
	query := `SELECT ` + foodColumns + ` FROM food_entries WHERE pk = $1 AND sk LIKE $2 ORDER BY sk ASC`
	if !ascending {
		query = `SELECT ` + foodColumns + ` FROM food_entries WHERE pk = $1 AND sk LIKE $2 ORDER BY sk DESC`
	}

	rows, err := p.pool.Query(ctx, query, pk, skPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query food entries: %w", err)
	}
	defer rows.Close()

	var recs []storage.FoodRecord
	for rows.Next() {
		var rec storage.FoodRecord
		if err := rows.Scan(&rec.PK, &rec.SK, &rec.EntityType, &rec.FoodID, &rec.UserID,
			&rec.Name, &rec.Protein, &rec.Carbs, &rec.Fats, &rec.Calories,
			&rec.Date, &rec.Timestamp, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan food entry: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food entries: %w", err)
	}
	return recs, nil
}

func (p *PostgresStorage) UpdateFields(ctx context.Context, pk, sk string, upd storage.FieldUpdate) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE food_entries
		SET name = $3, protein = $4, carbs = $5, fats = $6, calories = $7, updated_at = $8
		WHERE pk = $1 AND sk = $2
	`, pk, sk, upd.Name, upd.Protein, upd.Carbs, upd.Fats, upd.Calories, upd.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update food entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) Delete(ctx context.Context, pk, sk string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM food_entries WHERE pk = $1 AND sk = $2`, pk, sk); err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
