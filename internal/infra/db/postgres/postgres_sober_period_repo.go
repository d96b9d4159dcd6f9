package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
)

var _ repository.SoberPeriodRepository = (*PostgresSoberPeriodRepo)(nil)

type PostgresSoberPeriodRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSoberPeriodRepo(pool *pgxpool.Pool) *PostgresSoberPeriodRepo {
	return &PostgresSoberPeriodRepo{pool: pool}
}

func (r *PostgresSoberPeriodRepo) Save(ctx context.Context, qx any, p *model.SoberPeriod) error {
	const q = `
INSERT INTO sober_periods (id, user_id, start_time, end_time, is_active)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET end_time=$4, is_active=$5;
`
	_, err := pick(r.pool, qx).Exec(ctx, q, p.ID, p.UserID, p.StartTime, p.EndTime, p.IsActive)
	if isUniqueViolation(err) {
		// The partial unique index on (user_id) WHERE is_active fired: a
		// concurrent open won the race.
		return domain.ErrActivePeriodExists
	}
	return err
}

func (r *PostgresSoberPeriodRepo) FindByID(ctx context.Context, qx any, id string) (*model.SoberPeriod, error) {
	const q = `SELECT id, user_id, start_time, end_time, is_active FROM sober_periods WHERE id=$1;`
	return scanSoberPeriod(pick(r.pool, qx).QueryRow(ctx, q, id))
}

func (r *PostgresSoberPeriodRepo) FindActiveByUser(ctx context.Context, qx any, userID string) (*model.SoberPeriod, error) {
	const q = `
SELECT id, user_id, start_time, end_time, is_active
  FROM sober_periods WHERE user_id=$1 AND is_active LIMIT 1;`
	return scanSoberPeriod(pick(r.pool, qx).QueryRow(ctx, q, userID))
}

func (r *PostgresSoberPeriodRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.SoberPeriod, error) {
	const q = `
SELECT id, user_id, start_time, end_time, is_active
  FROM sober_periods ORDER BY start_time ASC OFFSET $1 LIMIT $2;`
	return r.queryMany(ctx, qx, q, offset, limit)
}

func (r *PostgresSoberPeriodRepo) ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.SoberPeriod, error) {
	const q = `
SELECT id, user_id, start_time, end_time, is_active
  FROM sober_periods WHERE user_id=$1 ORDER BY start_time ASC OFFSET $2 LIMIT $3;`
	return r.queryMany(ctx, qx, q, userID, offset, limit)
}

func (r *PostgresSoberPeriodRepo) queryMany(ctx context.Context, qx any, q string, args ...interface{}) ([]*model.SoberPeriod, error) {
	rows, err := pick(r.pool, qx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SoberPeriod
	for rows.Next() {
		p, err := scanSoberPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanSoberPeriod(row pgx.Row) (*model.SoberPeriod, error) {
	var p model.SoberPeriod
	if err := row.Scan(&p.ID, &p.UserID, &p.StartTime, &p.EndTime, &p.IsActive); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
