package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
)

var _ repository.GoalRepository = (*PostgresGoalRepo)(nil)

type PostgresGoalRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresGoalRepo(pool *pgxpool.Pool) *PostgresGoalRepo {
	return &PostgresGoalRepo{pool: pool}
}

func (r *PostgresGoalRepo) Save(ctx context.Context, qx any, g *model.Goal) error {
	const q = `
INSERT INTO goals (id, user_id, type, target_value, period, start_date, end_date, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET end_date=$7, is_active=$8;
`
	_, err := pick(r.pool, qx).Exec(ctx, q,
		g.ID, g.UserID, string(g.Type), g.TargetValue, string(g.Period), g.StartDate, g.EndDate, g.IsActive)
	return err
}

func (r *PostgresGoalRepo) FindByID(ctx context.Context, qx any, id string) (*model.Goal, error) {
	const q = `
SELECT id, user_id, type, target_value, period, start_date, end_date, is_active
  FROM goals WHERE id=$1;`
	return scanGoal(pick(r.pool, qx).QueryRow(ctx, q, id))
}

func (r *PostgresGoalRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.Goal, error) {
	const q = `
SELECT id, user_id, type, target_value, period, start_date, end_date, is_active
  FROM goals ORDER BY start_date ASC OFFSET $1 LIMIT $2;`
	return r.queryMany(ctx, qx, q, offset, limit)
}

func (r *PostgresGoalRepo) ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Goal, error) {
	const q = `
SELECT id, user_id, type, target_value, period, start_date, end_date, is_active
  FROM goals WHERE user_id=$1 ORDER BY start_date ASC OFFSET $2 LIMIT $3;`
	return r.queryMany(ctx, qx, q, userID, offset, limit)
}

func (r *PostgresGoalRepo) DeactivateExpired(ctx context.Context, qx any, now time.Time) (int, error) {
	const q = `UPDATE goals SET is_active=FALSE WHERE is_active AND end_date IS NOT NULL AND end_date < $1;`
	tag, err := pick(r.pool, qx).Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresGoalRepo) queryMany(ctx context.Context, qx any, q string, args ...interface{}) ([]*model.Goal, error) {
	rows, err := pick(r.pool, qx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGoal(row pgx.Row) (*model.Goal, error) {
	var (
		g           model.Goal
		typ, period string
	)
	if err := row.Scan(&g.ID, &g.UserID, &typ, &g.TargetValue, &period, &g.StartDate, &g.EndDate, &g.IsActive); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	g.Type = model.GoalType(typ)
	g.Period = model.GoalPeriod(period)
	return &g, nil
}
