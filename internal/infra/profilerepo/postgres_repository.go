package profilerepo

import (
	"context"
	"fmt"
	"time"

	"github.com/yanqian/daily-briefing/internal/domain/profile"
	"github.com/yanqian/daily-briefing/internal/infra/pgdb"
)

const profileColumns = "user_id, birth_year, birth_month, birth_day, home_region, work_region, categories, updated_at"

// PostgresRepository persists one profile row per user.
type PostgresRepository struct {
	pool pgdb.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool pgdb.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Upsert writes the profile keyed by user id.
func (r *PostgresRepository) Upsert(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	categories, err := profile.EncodeCategories(p.Categories)
	if err != nil {
		return profile.Profile{}, err
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, birth_year, birth_month, birth_day, home_region, work_region, categories, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			birth_year = EXCLUDED.birth_year,
			birth_month = EXCLUDED.birth_month,
			birth_day = EXCLUDED.birth_day,
			home_region = EXCLUDED.home_region,
			work_region = EXCLUDED.work_region,
			categories = EXCLUDED.categories,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		p.UserID, p.BirthYear, p.BirthMonth, p.BirthDay, p.HomeRegion, p.WorkRegion, categories, updated)
	return scanProfile(row)
}

// Get returns the user's profile, if any.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (profile.Profile, bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1 LIMIT 1`, userID)
	if err != nil {
		return profile.Profile{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return profile.Profile{}, false, rows.Err()
	}
	p, err := scanProfile(rows)
	if err != nil {
		return profile.Profile{}, false, err
	}
	return p, true, rows.Err()
}

func scanProfile(row pgdb.RowScanner) (profile.Profile, error) {
	var (
		p          profile.Profile
		categories string
		updated    time.Time
	)
	if err := row.Scan(&p.UserID, &p.BirthYear, &p.BirthMonth, &p.BirthDay, &p.HomeRegion, &p.WorkRegion, &categories, &updated); err != nil {
		return profile.Profile{}, err
	}
	decoded, err := profile.DecodeCategories(categories)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("profile %d: %w", p.UserID, err)
	}
	p.Categories = decoded
	p.UpdatedAt = updated.UTC()
	return p, nil
}

var _ profile.Repository = (*PostgresRepository)(nil)
