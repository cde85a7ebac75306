package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// errDuplicateUser is returned by createAccount when the username or email
// is already registered.
var errDuplicateUser = errors.New("username or email already exists")

// store is everything the handlers need from persistence. Not-found lookups
// return an error matching pgx.ErrNoRows.
type store interface {
	userByUsername(ctx context.Context, username string) (user, error)
	userIDByToken(ctx context.Context, token string) (int, error)
	rotateToken(ctx context.Context, userID int, token string) error
	createAccount(ctx context.Context, u user, p profile) (user, error)

	profileByUser(ctx context.Context, userID int) (profile, error)
	saveProfile(ctx context.Context, p profile, newWeight *float64) (profile, error)

	createMealLog(ctx context.Context, m mealLog) (mealLog, error)
	mealLogsBetween(ctx context.Context, userID int, from, to time.Time) ([]mealLog, error)
	latestMealLog(ctx context.Context, userID int) (*mealLog, error)

	createWorkoutLog(ctx context.Context, w workoutLog) (workoutLog, error)
	workoutLogsBetween(ctx context.Context, userID int, from, to time.Time) ([]workoutLog, error)
	workoutLogsByName(ctx context.Context, userID int, name string) ([]workoutLog, error)
	latestWorkoutLog(ctx context.Context, userID int) (*workoutLog, error)

	weightLogs(ctx context.Context, userID int, limit int) ([]weightLog, error)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the helpers
// below work inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// queryLatest is queryOne that maps "no rows" to a nil result.
func queryLatest[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) (*T, error) {
	result, err := queryOne[T](ctx, q, sql, args)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

/* ─── Postgres store ─────────────────────────────────────────────────── */

// pgStore implements store on a pgx pool.
type pgStore struct {
	db *pgxpool.Pool
}

func (s *pgStore) userByUsername(ctx context.Context, username string) (user, error) {
	u, err := queryOne[user](ctx, s.db,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if err != nil {
		return user{}, fmt.Errorf("user by username: %w", err)
	}
	return u, nil
}

func (s *pgStore) userIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("user by token: %w", err)
	}
	return userID, nil
}

// rotateToken replaces the user's auth token, revoking the old one.
func (s *pgStore) rotateToken(ctx context.Context, userID int, token string) error {
	tag, err := s.db.Exec(ctx, "UPDATE users SET auth_token = @token WHERE id = @userID",
		pgx.NamedArgs{"token": token, "userID": userID})
	if err != nil {
		return fmt.Errorf("rotate token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rotate token: %w", pgx.ErrNoRows)
	}
	return nil
}

// createAccount inserts the user, their profile and (when a weight is given)
// the first weight log in one transaction.
func (s *pgStore) createAccount(ctx context.Context, u user, p profile) (user, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return user{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := queryOne[user](ctx, tx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @authToken)
		 RETURNING *`,
		pgx.NamedArgs{
			"username":  u.Username,
			"email":     u.Email,
			"password":  u.Password,
			"authToken": u.AuthToken,
		})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user{}, errDuplicateUser
		}
		return user{}, fmt.Errorf("insert user: %w", err)
	}

	p.UserID = created.ID
	if _, err := upsertProfile(ctx, tx, p); err != nil {
		return user{}, err
	}
	if p.WeightKg != nil {
		if err := insertWeightLog(ctx, tx, created.ID, *p.WeightKg); err != nil {
			return user{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return user{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *pgStore) profileByUser(ctx context.Context, userID int) (profile, error) {
	p, err := queryOne[profile](ctx, s.db,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return profile{}, fmt.Errorf("profile by user: %w", err)
	}
	return p, nil
}

// saveProfile writes the whole profile and, when newWeight is set, appends a
// weight log. Both land or neither does.
func (s *pgStore) saveProfile(ctx context.Context, p profile, newWeight *float64) (profile, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return profile{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	saved, err := upsertProfile(ctx, tx, p)
	if err != nil {
		return profile{}, err
	}
	if newWeight != nil {
		if err := insertWeightLog(ctx, tx, p.UserID, *newWeight); err != nil {
			return profile{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return profile{}, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func upsertProfile(ctx context.Context, tx pgx.Tx, p profile) (profile, error) {
	saved, err := queryOne[profile](ctx, tx,
		`INSERT INTO profiles (
			user_id, weight_kg, height_cm, goal, goal_weight_kg, fitness_level,
			dietary_preferences, goal_calories, goal_protein, goal_carbs, goal_fat
		 ) VALUES (
			@userID, @weightKg, @heightCm, @goal, @goalWeightKg, @fitnessLevel,
			@dietaryPreferences, @goalCalories, @goalProtein, @goalCarbs, @goalFat
		 )
		 ON CONFLICT (user_id) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			goal = EXCLUDED.goal,
			goal_weight_kg = EXCLUDED.goal_weight_kg,
			fitness_level = EXCLUDED.fitness_level,
			dietary_preferences = EXCLUDED.dietary_preferences,
			goal_calories = EXCLUDED.goal_calories,
			goal_protein = EXCLUDED.goal_protein,
			goal_carbs = EXCLUDED.goal_carbs,
			goal_fat = EXCLUDED.goal_fat,
			updated_at = NOW()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":             p.UserID,
			"weightKg":           p.WeightKg,
			"heightCm":           p.HeightCm,
			"goal":               p.Goal,
			"goalWeightKg":       p.GoalWeightKg,
			"fitnessLevel":       p.FitnessLevel,
			"dietaryPreferences": p.DietaryPreferences,
			"goalCalories":       p.GoalCalories,
			"goalProtein":        p.GoalProtein,
			"goalCarbs":          p.GoalCarbs,
			"goalFat":            p.GoalFat,
		})
	if err != nil {
		return profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}

func insertWeightLog(ctx context.Context, tx pgx.Tx, userID int, weightKg float64) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO weight_logs (user_id, weight_kg) VALUES (@userID, @weightKg)",
		pgx.NamedArgs{"userID": userID, "weightKg": weightKg})
	if err != nil {
		return fmt.Errorf("insert weight log: %w", err)
	}
	return nil
}

func (s *pgStore) createMealLog(ctx context.Context, m mealLog) (mealLog, error) {
	created, err := queryOne[mealLog](ctx, s.db,
		`INSERT INTO meal_logs (user_id, meal_name, meal_type, calories,
			protein_g, carbs_g, fat_g, fiber_g, sugar_g, notes)
		 VALUES (@userID, @mealName, @mealType, @calories,
			@proteinG, @carbsG, @fatG, @fiberG, @sugarG, @notes)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":   m.UserID,
			"mealName": m.MealName,
			"mealType": m.MealType,
			"calories": m.Calories,
			"proteinG": m.ProteinG,
			"carbsG":   m.CarbsG,
			"fatG":     m.FatG,
			"fiberG":   m.FiberG,
			"sugarG":   m.SugarG,
			"notes":    m.Notes,
		})
	if err != nil {
		return mealLog{}, fmt.Errorf("insert meal log: %w", err)
	}
	return created, nil
}

// mealLogsBetween returns the user's meals with from <= logged_at < to, oldest first.
func (s *pgStore) mealLogsBetween(ctx context.Context, userID int, from, to time.Time) ([]mealLog, error) {
	logs, err := queryMany[mealLog](ctx, s.db,
		`SELECT * FROM meal_logs
		 WHERE user_id = @userID AND logged_at >= @from AND logged_at < @to
		 ORDER BY logged_at ASC`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("meal logs between: %w", err)
	}
	return logs, nil
}

func (s *pgStore) latestMealLog(ctx context.Context, userID int) (*mealLog, error) {
	m, err := queryLatest[mealLog](ctx, s.db,
		"SELECT * FROM meal_logs WHERE user_id = @userID ORDER BY logged_at DESC LIMIT 1",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("latest meal log: %w", err)
	}
	return m, nil
}

// createWorkoutLog inserts the log; a zero LoggedAt takes the column default.
func (s *pgStore) createWorkoutLog(ctx context.Context, w workoutLog) (workoutLog, error) {
	var loggedAt *time.Time
	if !w.LoggedAt.IsZero() {
		loggedAt = &w.LoggedAt
	}
	created, err := queryOne[workoutLog](ctx, s.db,
		`INSERT INTO workout_logs (user_id, workout_name, intensity_level, repetitions, notes, logged_at)
		 VALUES (@userID, @workoutName, @intensityLevel, @repetitions, @notes, COALESCE(@loggedAt, NOW()))
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":         w.UserID,
			"workoutName":    w.WorkoutName,
			"intensityLevel": w.IntensityLevel,
			"repetitions":    w.Repetitions,
			"notes":          w.Notes,
			"loggedAt":       loggedAt,
		})
	if err != nil {
		return workoutLog{}, fmt.Errorf("insert workout log: %w", err)
	}
	return created, nil
}

// workoutLogsBetween returns the user's workouts with from <= logged_at < to, oldest first.
func (s *pgStore) workoutLogsBetween(ctx context.Context, userID int, from, to time.Time) ([]workoutLog, error) {
	logs, err := queryMany[workoutLog](ctx, s.db,
		`SELECT * FROM workout_logs
		 WHERE user_id = @userID AND logged_at >= @from AND logged_at < @to
		 ORDER BY logged_at ASC`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("workout logs between: %w", err)
	}
	return logs, nil
}

// workoutLogsByName returns one workout's history, newest first.
func (s *pgStore) workoutLogsByName(ctx context.Context, userID int, name string) ([]workoutLog, error) {
	logs, err := queryMany[workoutLog](ctx, s.db,
		`SELECT * FROM workout_logs
		 WHERE user_id = @userID AND workout_name = @name
		 ORDER BY logged_at DESC`,
		pgx.NamedArgs{"userID": userID, "name": name})
	if err != nil {
		return nil, fmt.Errorf("workout logs by name: %w", err)
	}
	return logs, nil
}

func (s *pgStore) latestWorkoutLog(ctx context.Context, userID int) (*workoutLog, error) {
	w, err := queryLatest[workoutLog](ctx, s.db,
		"SELECT * FROM workout_logs WHERE user_id = @userID ORDER BY logged_at DESC LIMIT 1",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("latest workout log: %w", err)
	}
	return w, nil
}

// weightLogs returns the user's most recent limit entries (all when limit <= 0),
// oldest first.
func (s *pgStore) weightLogs(ctx context.Context, userID int, limit int) ([]weightLog, error) {
	args := pgx.NamedArgs{"userID": userID}
	sql := "SELECT * FROM weight_logs WHERE user_id = @userID ORDER BY logged_at ASC, id ASC"
	if limit > 0 {
		args["limit"] = limit
		sql = `SELECT * FROM (
			SELECT * FROM weight_logs WHERE user_id = @userID
			ORDER BY logged_at DESC, id DESC LIMIT @limit
		 ) recent ORDER BY logged_at ASC, id ASC`
	}
	logs, err := queryMany[weightLog](ctx, s.db, sql, args)
	if err != nil {
		return nil, fmt.Errorf("weight logs: %w", err)
	}
	return logs, nil
}
