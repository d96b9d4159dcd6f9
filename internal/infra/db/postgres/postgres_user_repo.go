package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	const q = `
INSERT INTO users (id, telegram_id, username, first_name, last_name, created_at, settings)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  username=$3, first_name=$4, last_name=$5, settings=$7;
`
	settings, err := json.Marshal(u.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = pick(r.pool, qx).Exec(ctx, q, u.ID, u.TelegramID, u.Username, u.FirstName, u.LastName, u.CreatedAt, settings)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	const q = `
SELECT id, telegram_id, username, first_name, last_name, created_at, settings
  FROM users WHERE id=$1;`
	return r.scanOne(pick(r.pool, qx).QueryRow(ctx, q, id))
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error) {
	const q = `
SELECT id, telegram_id, username, first_name, last_name, created_at, settings
  FROM users WHERE telegram_id=$1;`
	return r.scanOne(pick(r.pool, qx).QueryRow(ctx, q, tgID))
}

func (r *PostgresUserRepo) List(ctx context.Context, qx any, offset, limit int) ([]*model.User, error) {
	const q = `
SELECT id, telegram_id, username, first_name, last_name, created_at, settings
  FROM users ORDER BY created_at ASC OFFSET $1 LIMIT $2;`
	rows, err := pick(r.pool, qx).Query(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, qx any) (int, error) {
	row := pick(r.pool, qx).QueryRow(ctx, `SELECT COUNT(*) FROM users;`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *PostgresUserRepo) UpdateSettings(ctx context.Context, qx any, id string, settings map[string]any) error {
	b, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	tag, err := pick(r.pool, qx).Exec(ctx, `UPDATE users SET settings=$2 WHERE id=$1;`, id, b)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) scanOne(row pgx.Row) (*model.User, error) {
	var (
		u        model.User
		settings []byte
	)
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt, &settings); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &u.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}
	if u.Settings == nil {
		u.Settings = map[string]any{}
	}
	return &u, nil
}
