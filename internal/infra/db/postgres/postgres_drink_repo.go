package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
)

var _ repository.DrinkRepository = (*PostgresDrinkRepo)(nil)

type PostgresDrinkRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresDrinkRepo(pool *pgxpool.Pool) *PostgresDrinkRepo {
	return &PostgresDrinkRepo{pool: pool}
}

const drinkColumns = `id, user_id, drink_type, volume, alcohol_content, price, location, mood, comment, created_at`

func (r *PostgresDrinkRepo) Save(ctx context.Context, qx any, d *model.Drink) error {
	const q = `
INSERT INTO drinks (` + drinkColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);
`
	_, err := pick(r.pool, qx).Exec(ctx, q,
		d.ID, d.UserID, d.DrinkType, d.Volume, d.AlcoholContent, d.Price, d.Location, d.Mood, d.Comment, d.CreatedAt)
	return err
}

func (r *PostgresDrinkRepo) FindByID(ctx context.Context, qx any, id string) (*model.Drink, error) {
	const q = `SELECT ` + drinkColumns + ` FROM drinks WHERE id=$1;`
	return scanDrink(pick(r.pool, qx).QueryRow(ctx, q, id))
}

func (r *PostgresDrinkRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.Drink, error) {
	const q = `SELECT ` + drinkColumns + ` FROM drinks ORDER BY created_at ASC OFFSET $1 LIMIT $2;`
	return r.queryMany(ctx, qx, q, offset, limit)
}

func (r *PostgresDrinkRepo) ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Drink, error) {
	const q = `SELECT ` + drinkColumns + ` FROM drinks WHERE user_id=$1 ORDER BY created_at ASC OFFSET $2 LIMIT $3;`
	return r.queryMany(ctx, qx, q, userID, offset, limit)
}

func (r *PostgresDrinkRepo) ListAllByUser(ctx context.Context, qx any, userID string) ([]*model.Drink, error) {
	const q = `SELECT ` + drinkColumns + ` FROM drinks WHERE user_id=$1 ORDER BY created_at ASC;`
	return r.queryMany(ctx, qx, q, userID)
}

func (r *PostgresDrinkRepo) CountByUser(ctx context.Context, qx any, userID string) (int, error) {
	row := pick(r.pool, qx).QueryRow(ctx, `SELECT COUNT(*) FROM drinks WHERE user_id=$1;`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count drinks: %w", err)
	}
	return n, nil
}

func (r *PostgresDrinkRepo) queryMany(ctx context.Context, qx any, q string, args ...interface{}) ([]*model.Drink, error) {
	rows, err := pick(r.pool, qx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Drink
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDrink(row pgx.Row) (*model.Drink, error) {
	var d model.Drink
	if err := row.Scan(&d.ID, &d.UserID, &d.DrinkType, &d.Volume, &d.AlcoholContent, &d.Price, &d.Location, &d.Mood, &d.Comment, &d.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
