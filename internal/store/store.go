// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the local food cache in SQLite. The cache is a
// lazily-populated, append-mostly projection of the remote corpus plus
// any manually created foods.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voss/nutrikit/pkg/types"
)

// ErrNotFound reports that a lookup by key matched no row.
var ErrNotFound = errors.New("store: food not found")

// Store manages the food cache SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the food cache database at dbPath and creates
// the schema if it does not exist. ":memory:" gives an ephemeral cache.
func Open(dbPath string) (*Store, error) {
	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on"
	memory := dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
	if memory {
		dsn = dbPath
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS foods (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT UNIQUE,
			name TEXT NOT NULL,
			serving_size REAL NOT NULL DEFAULT 100,
			serving_unit TEXT NOT NULL DEFAULT 'g',
			calories REAL NOT NULL DEFAULT 0,
			protein REAL NOT NULL DEFAULT 0,
			carbohydrates REAL NOT NULL DEFAULT 0,
			fat REAL NOT NULL DEFAULT 0,
			fiber REAL NOT NULL DEFAULT 0,
			sugar REAL NOT NULL DEFAULT 0,
			sodium REAL NOT NULL DEFAULT 0,
			categories TEXT,
			source TEXT,
			source_id TEXT,
			usage_meal_plans INTEGER NOT NULL DEFAULT 0,
			usage_favorites INTEGER NOT NULL DEFAULT 0,
			usage_searches INTEGER NOT NULL DEFAULT 0,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			additional_nutrients TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name)`,
		`CREATE INDEX IF NOT EXISTS idx_foods_usage ON foods(usage_meal_plans DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const foodColumns = `id, external_id, name, serving_size, serving_unit,
	calories, protein, carbohydrates, fat, fiber, sugar, sodium,
	categories, source, source_id,
	usage_meal_plans, usage_favorites, usage_searches, is_favorite,
	additional_nutrients, created_at, updated_at`

// FindByNameOrCategory returns foods whose name contains query
// case-insensitively, or whose categories list contains query as a
// member, ordered by meal-plan usage descending then name ascending.
func (s *Store) FindByNameOrCategory(ctx context.Context, query string, limit, offset int) ([]types.Food, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods
		 WHERE instr(lower(name), lower(?)) > 0
		    OR EXISTS (SELECT 1 FROM json_each(coalesce(categories, '[]')) WHERE value = ?)
		 ORDER BY usage_meal_plans DESC, name ASC
		 LIMIT ? OFFSET ?`,
		query, query, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("querying foods: %w", err)
	}
	defer rows.Close()
	return scanFoods(rows)
}

// FindExistingByExternalIDs returns the cached foods whose external ID
// is in ids. Unknown IDs are simply absent from the result.
func (s *Store) FindExistingByExternalIDs(ctx context.Context, ids []string) ([]types.Food, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE external_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying by external IDs: %w", err)
	}
	defer rows.Close()
	return scanFoods(rows)
}

// InsertMany inserts the given foods in a single transaction. Duplicate
// external IDs fail the whole batch; use UpsertMany on the search path.
func (s *Store) InsertMany(ctx context.Context, foods []types.Food) error {
	return s.insertBatch(ctx, foods, false, nil)
}

// UpsertMany inserts the given foods in a single transaction, silently
// skipping any whose external ID already exists, and returns the rows
// that were actually inserted with their assigned IDs. Pre-existing rows
// are left untouched. The conflict-ignore insert closes the window
// between an existence check and the write, so two concurrent identical
// searches cannot create duplicate rows.
func (s *Store) UpsertMany(ctx context.Context, foods []types.Food) ([]types.Food, error) {
	var inserted []types.Food
	if err := s.insertBatch(ctx, foods, true, &inserted); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (s *Store) insertBatch(ctx context.Context, foods []types.Food, ignoreConflicts bool, inserted *[]types.Food) error {
	if len(foods) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	q := `INSERT INTO foods (external_id, name, serving_size, serving_unit,
		calories, protein, carbohydrates, fat, fiber, sugar, sodium,
		categories, source, source_id,
		usage_meal_plans, usage_favorites, usage_searches, is_favorite,
		additional_nutrients, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if ignoreConflicts {
		q += ` ON CONFLICT(external_id) DO NOTHING`
	}

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, f := range foods {
		categoriesJSON, _ := json.Marshal(f.Categories)
		nutrientsJSON, _ := json.Marshal(f.AdditionalNutrients)
		createdAt := f.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		res, err := stmt.ExecContext(ctx,
			f.ExternalID, f.Name, f.ServingSize, f.ServingUnit,
			f.Calories, f.Protein, f.Carbohydrates, f.Fat, f.Fiber, f.Sugar, f.Sodium,
			string(categoriesJSON), f.Source, f.SourceID,
			f.UsageMealPlans, f.UsageFavorites, f.UsageSearches, f.IsFavorite,
			string(nutrientsJSON),
			createdAt.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting food %q: %w", f.Name, err)
		}

		if inserted != nil {
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("checking insert of %q: %w", f.Name, err)
			}
			if n == 0 {
				continue
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("reading id of %q: %w", f.Name, err)
			}
			f.ID = id
			f.CreatedAt = createdAt
			f.UpdatedAt = now
			*inserted = append(*inserted, f)
		}
	}

	return tx.Commit()
}

// FindByID returns one food by local key, or ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id int64) (*types.Food, error) {
	return s.findOne(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ?`, id)
}

// FindByExternalID returns one food by its natural key, or ErrNotFound.
func (s *Store) FindByExternalID(ctx context.Context, externalID string) (*types.Food, error) {
	return s.findOne(ctx, `SELECT `+foodColumns+` FROM foods WHERE external_id = ?`, externalID)
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (*types.Food, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying food: %w", err)
	}
	defer rows.Close()

	foods, err := scanFoods(rows)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return nil, ErrNotFound
	}
	return &foods[0], nil
}

// Update rewrites all mutable fields of a food row. Last writer wins.
func (s *Store) Update(ctx context.Context, f types.Food) error {
	categoriesJSON, _ := json.Marshal(f.Categories)
	nutrientsJSON, _ := json.Marshal(f.AdditionalNutrients)

	res, err := s.db.ExecContext(ctx,
		`UPDATE foods SET
			external_id = ?, name = ?, serving_size = ?, serving_unit = ?,
			calories = ?, protein = ?, carbohydrates = ?, fat = ?,
			fiber = ?, sugar = ?, sodium = ?,
			categories = ?, source = ?, source_id = ?,
			usage_meal_plans = ?, usage_favorites = ?, usage_searches = ?,
			is_favorite = ?, additional_nutrients = ?, updated_at = ?
		 WHERE id = ?`,
		f.ExternalID, f.Name, f.ServingSize, f.ServingUnit,
		f.Calories, f.Protein, f.Carbohydrates, f.Fat,
		f.Fiber, f.Sugar, f.Sodium,
		string(categoriesJSON), f.Source, f.SourceID,
		f.UsageMealPlans, f.UsageFavorites, f.UsageSearches,
		f.IsFavorite, string(nutrientsJSON), time.Now().UTC().Format(time.RFC3339Nano),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating food %d: %w", f.ID, err)
	}
	return requireRow(res)
}

// Remove deletes one food row by local key.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing food %d: %w", id, err)
	}
	return requireRow(res)
}

// usageColumns whitelists the counter names IncrementUsage accepts.
var usageColumns = map[string]string{
	types.UsageMealPlans: "usage_meal_plans",
	types.UsageFavorites: "usage_favorites",
	types.UsageSearches:  "usage_searches",
}

// IncrementUsage bumps one usage counter by one. The write carries no
// optimistic-concurrency check; concurrent increments both land.
func (s *Store) IncrementUsage(ctx context.Context, id int64, counter string) error {
	col, ok := usageColumns[counter]
	if !ok {
		return fmt.Errorf("unknown usage counter %q", counter)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE foods SET `+col+` = `+col+` + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("incrementing %s for food %d: %w", counter, id, err)
	}
	return requireRow(res)
}

// SetFavorite toggles the favorite flag. Last writer wins.
func (s *Store) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE foods SET is_favorite = ?, updated_at = ? WHERE id = ?`,
		favorite, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("setting favorite for food %d: %w", id, err)
	}
	return requireRow(res)
}

// macroColumns whitelists the nutrient names FindByNutrientRange can
// resolve to a first-class column.
var macroColumns = map[string]string{
	"calories": "calories", "protein": "protein",
	"carbohydrates": "carbohydrates", "fat": "fat",
	"fiber": "fiber", "sugar": "sugar", "sodium": "sodium",
}

// FindByNutrientRange returns cached foods whose named macro falls in
// [min, max], ordered by that macro ascending then name. Nutrients
// without a first-class column yield an empty result; only the remote
// corpus can range-query those.
func (s *Store) FindByNutrientRange(ctx context.Context, nutrient string, min, max float64, limit, offset int) ([]types.Food, error) {
	col, ok := macroColumns[nutrient]
	if !ok {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods
		 WHERE `+col+` BETWEEN ? AND ?
		 ORDER BY `+col+` ASC, name ASC
		 LIMIT ? OFFSET ?`,
		min, max, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("querying by %s range: %w", nutrient, err)
	}
	defer rows.Close()
	return scanFoods(rows)
}

// All returns the full cached catalog ordered by name, for bulk export.
func (s *Store) All(ctx context.Context) ([]types.Food, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()
	return scanFoods(rows)
}

// Count returns the number of cached foods.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM foods`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting foods: %w", err)
	}
	return n, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFoods(rows *sql.Rows) ([]types.Food, error) {
	var foods []types.Food
	for rows.Next() {
		var (
			f             types.Food
			externalID    sql.NullString
			categories    sql.NullString
			source        sql.NullString
			sourceID      sql.NullString
			nutrientsJSON sql.NullString
			createdAt     sql.NullString
			updatedAt     sql.NullString
		)
		if err := rows.Scan(
			&f.ID, &externalID, &f.Name, &f.ServingSize, &f.ServingUnit,
			&f.Calories, &f.Protein, &f.Carbohydrates, &f.Fat, &f.Fiber, &f.Sugar, &f.Sodium,
			&categories, &source, &sourceID,
			&f.UsageMealPlans, &f.UsageFavorites, &f.UsageSearches, &f.IsFavorite,
			&nutrientsJSON, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if externalID.Valid {
			v := externalID.String
			f.ExternalID = &v
		}
		if categories.Valid {
			json.Unmarshal([]byte(categories.String), &f.Categories)
		}
		if source.Valid {
			f.Source = source.String
		}
		if sourceID.Valid {
			f.SourceID = sourceID.String
		}
		if nutrientsJSON.Valid {
			json.Unmarshal([]byte(nutrientsJSON.String), &f.AdditionalNutrients)
		}
		if createdAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, createdAt.String); err == nil {
				f.CreatedAt = t
			}
		}
		if updatedAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, updatedAt.String); err == nil {
				f.UpdatedAt = t
			}
		}

		foods = append(foods, f)
	}
	return foods, rows.Err()
}
