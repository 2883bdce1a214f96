package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/cache"
	"github.com/yigit/dojo/internal/pkg/logger"
)

// DefaultPlanTTL is used when no cache TTL is configured
const DefaultPlanTTL = 10 * time.Minute

// MonthlyPlanRepository reads plan templates, optionally through a Redis cache
type MonthlyPlanRepository struct {
	db    *pgxpool.Pool
	sb    squirrel.StatementBuilderType
	cache cache.Store
	ttl   time.Duration
}

// NewMonthlyPlanRepository creates a new MonthlyPlanRepository. store may be nil.
func NewMonthlyPlanRepository(db *pgxpool.Pool, store cache.Store, ttl time.Duration) *MonthlyPlanRepository {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &MonthlyPlanRepository{
		db:    db,
		sb:    psql,
		cache: store,
		ttl:   ttl,
	}
}

func scanPlan(row pgx.Row) (*models.MonthlyPlan, error) {
	var p models.MonthlyPlan
	var scopes []string
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Features, &scopes); err != nil {
		return nil, err
	}
	p.GraduationScopes = make([]models.GraduationScope, 0, len(scopes))
	for _, s := range scopes {
		p.GraduationScopes = append(p.GraduationScopes, models.GraduationScope(s))
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return &p, nil
}

func (r *MonthlyPlanRepository) selectPlans() squirrel.SelectBuilder {
	return r.sb.Select("id", "name", "price::float8", "description", "features", "graduation_scopes").
		From("monthly_plans")
}

// List returns every plan ordered by price
func (r *MonthlyPlanRepository) List(ctx context.Context) ([]models.MonthlyPlan, error) {
	var cached []models.MonthlyPlan
	if r.cacheGet(ctx, cache.KeyPlans, &cached) {
		return cached, nil
	}

	sql, args, err := r.selectPlans().OrderBy("price", "id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list plans SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list plans query")
		return nil, storageErr(err)
	}
	defer rows.Close()

	plans := make([]models.MonthlyPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning plan row")
			return nil, storageErr(err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	r.cacheSet(ctx, cache.KeyPlans, plans)
	return plans, nil
}

// GetByID retrieves one plan
func (r *MonthlyPlanRepository) GetByID(ctx context.Context, id int64) (*models.MonthlyPlan, error) {
	var cached models.MonthlyPlan
	if r.cacheGet(ctx, cache.PlanKey(id), &cached) {
		return &cached, nil
	}

	sql, args, err := r.selectPlans().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get plan SQL")
		return nil, err
	}

	p, err := scanPlan(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanNotFound
		}
		logger.Error().Err(err).Int64("planID", id).Msg("Error getting plan by ID")
		return nil, storageErr(err)
	}

	r.cacheSet(ctx, cache.PlanKey(id), p)
	return p, nil
}

// EnsureDefaults inserts the given plans unless a plan with the same name exists.
// It returns the number of plans inserted.
func (r *MonthlyPlanRepository) EnsureDefaults(ctx context.Context, plans []models.MonthlyPlan) (int, error) {
	inserted := 0
	for _, p := range plans {
		scopes := make([]string, 0, len(p.GraduationScopes))
		for _, s := range p.GraduationScopes {
			scopes = append(scopes, string(s))
		}

		sql, args, err := r.sb.Insert("monthly_plans").
			Columns("name", "price", "description", "features", "graduation_scopes").
			Values(p.Name, p.Price, p.Description, p.Features, scopes).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, err
		}

		tag, err := r.db.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Str("plan", p.Name).Msg("Error seeding plan")
			return inserted, storageErr(err)
		}
		inserted += int(tag.RowsAffected())
	}

	if inserted > 0 && r.cache != nil {
		if err := r.cache.Delete(ctx, cache.KeyPlans); err != nil {
			logger.Warn().Err(err).Msg("Failed to invalidate plan cache")
		}
	}
	return inserted, nil
}

// cacheGet reports a hit. Cache failures fall back to the database.
func (r *MonthlyPlanRepository) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if r.cache == nil {
		return false
	}
	err := r.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn().Err(err).Str("key", key).Msg("Plan cache read failed")
	}
	return false
}

func (r *MonthlyPlanRepository) cacheSet(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Plan cache write failed")
	}
}
