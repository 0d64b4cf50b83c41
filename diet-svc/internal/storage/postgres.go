package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dietmap/diet-svc/internal/domain"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id     INTEGER PRIMARY KEY,
		name              TEXT NOT NULL,
		address           TEXT,
		average_rating    NUMERIC(2,1) NOT NULL DEFAULT 0,
		price_range       SMALLINT NOT NULL DEFAULT 0,
		food_type         TEXT,
		vegetarian_option TEXT NOT NULL DEFAULT 'omnivore'
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		item_id       INTEGER PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		description   TEXT,
		price         NUMERIC(10,2) NOT NULL DEFAULT 0,
		calories      INTEGER NOT NULL DEFAULT 0,
		protein       NUMERIC(6,1) NOT NULL DEFAULT 0,
		carbs         NUMERIC(6,1) NOT NULL DEFAULT 0,
		fat           NUMERIC(6,1) NOT NULL DEFAULT 0,
		times_logged  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id         SERIAL PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		password_hash   TEXT NOT NULL,
		mode            TEXT NOT NULL DEFAULT 'NORMAL',
		budget          NUMERIC(10,2) NOT NULL DEFAULT 0,
		target_calories INTEGER,
		target_protein  NUMERIC(6,1),
		target_fat      NUMERIC(6,1),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS diet_logs (
		log_id       SERIAL PRIMARY KEY,
		user_id      INTEGER NOT NULL,
		item_id      INTEGER NOT NULL,
		logged_at    TIMESTAMP NOT NULL,
		portion_size DOUBLE PRECISION NOT NULL DEFAULT 1.0 CHECK (portion_size >= 0.01 AND portion_size <= 999.99)
	)`,
	`CREATE INDEX IF NOT EXISTS diet_logs_user_time_idx ON diet_logs (user_id, logged_at DESC)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id       INTEGER NOT NULL,
		restaurant_id INTEGER NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, restaurant_id)
	)`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return unavailable(err)
		}
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// writeErr maps a rejected diet log write. A CHECK violation is the caller's
// portion, not an outage.
func writeErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == checkViolation {
		return domain.NewValidationError("portion_size", pqErr.Message)
	}
	return unavailable(err)
}

// lookupErr maps a single-row lookup failure.
func lookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return unavailable(err)
}

// wallClock reinterprets a TIMESTAMP column value in the local zone. The
// column stores wall-clock time only.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

const restaurantColumns = `restaurant_id, name, COALESCE(address, ''), average_rating, price_range,
	COALESCE(food_type, ''), vegetarian_option`

const menuItemColumns = `item_id, restaurant_id, name, COALESCE(description, ''), price,
	calories, protein, carbs, fat`

type scanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row scanner) (domain.Restaurant, error) {
	var (
		id               int
		name, address    string
		rating           float64
		tier             int
		category, vegRaw string
	)
	if err := row.Scan(&id, &name, &address, &rating, &tier, &category, &vegRaw); err != nil {
		return domain.Restaurant{}, err
	}
	veg, _ := domain.ParseVegetarianOption(vegRaw)
	return domain.NewRestaurant(id, name, address, rating, domain.PriceTier(tier), domain.FoodCategory(category), veg)
}

func scanMenuItem(row scanner) (domain.MenuItem, error) {
	var (
		id, restaurantID  int
		name, description string
		price             float64
		facts             domain.Nutrition
	)
	if err := row.Scan(&id, &restaurantID, &name, &description, &price,
		&facts.Calories, &facts.Protein, &facts.Carbs, &facts.Fat); err != nil {
		return domain.MenuItem{}, err
	}
	return domain.NewMenuItem(id, restaurantID, name, description, price, facts)
}

// LoadAll reads every restaurant with its menu. Rows that fail validation are
// skipped and logged.
func (r *PostgresRepository) LoadAll(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY restaurant_id`)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	index := map[int]int{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			log.WithError(err).Warn("Skipping invalid restaurant row")
			continue
		}
		index[rest.ID] = len(restaurants)
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}

	itemRows, err := r.DB.QueryContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY restaurant_id, item_id`)
	if err != nil {
		return nil, unavailable(err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanMenuItem(itemRows)
		if err != nil {
			log.WithError(err).Warn("Skipping invalid menu item row")
			continue
		}
		i, ok := index[item.RestaurantID]
		if !ok {
			continue
		}
		_ = restaurants[i].AddItem(item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, unavailable(err)
	}

	return restaurants, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE restaurant_id = $1`, id))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, lookupErr(err)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE restaurant_id = $1 ORDER BY item_id`, id)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			log.WithError(err).WithField("restaurant_id", id).Warn("Skipping invalid menu item row")
			continue
		}
		_ = rest.AddItem(item)
	}
	return &rest, rows.Err()
}

// ImportCatalog upserts restaurants and their menus in one transaction.
func (r *PostgresRepository) ImportCatalog(ctx context.Context, restaurants []domain.Restaurant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback()

	for _, rest := range restaurants {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO restaurants (restaurant_id, name, address, average_rating, price_range, food_type, vegetarian_option)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (restaurant_id) DO UPDATE SET
				name = EXCLUDED.name, address = EXCLUDED.address, average_rating = EXCLUDED.average_rating,
				price_range = EXCLUDED.price_range, food_type = EXCLUDED.food_type,
				vegetarian_option = EXCLUDED.vegetarian_option`,
			rest.ID, rest.Name, rest.Address, rest.AverageRating, int(rest.PriceTier), string(rest.Category), string(rest.Vegetarian),
		); err != nil {
			return unavailable(err)
		}

		for _, item := range rest.Menu {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO menu_items (item_id, restaurant_id, name, description, price, calories, protein, carbs, fat)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (item_id) DO UPDATE SET
					restaurant_id = EXCLUDED.restaurant_id, name = EXCLUDED.name, description = EXCLUDED.description,
					price = EXCLUDED.price, calories = EXCLUDED.calories, protein = EXCLUDED.protein,
					carbs = EXCLUDED.carbs, fat = EXCLUDED.fat`,
				item.ID, item.RestaurantID, item.Name, item.Description, item.Price,
				item.Calories, item.Protein, item.Carbs, item.Fat,
			); err != nil {
				return unavailable(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err)
	}
	return nil
}

const dietLogSelect = `
	SELECT d.log_id, d.user_id, d.item_id, d.logged_at, d.portion_size,
		COALESCE(m.name, ''), COALESCE(m.restaurant_id, 0), COALESCE(r.name, ''),
		COALESCE(m.calories, 0), COALESCE(m.protein, 0), COALESCE(m.carbs, 0), COALESCE(m.fat, 0)
	FROM diet_logs d
	LEFT JOIN menu_items m ON m.item_id = d.item_id
	LEFT JOIN restaurants r ON r.restaurant_id = m.restaurant_id`

func (r *PostgresRepository) Insert(ctx context.Context, entry *domain.DietLogEntry) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO diet_logs (user_id, item_id, logged_at, portion_size) VALUES ($1, $2, $3, $4) RETURNING log_id",
		entry.UserID, entry.ItemID, entry.Timestamp, entry.PortionSize,
	).Scan(&entry.ID)
	if err != nil {
		return writeErr(err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, entryID, userID int) (*domain.DietLogEntry, error) {
	var entry domain.DietLogEntry
	err := r.DB.QueryRowContext(ctx,
		"SELECT log_id, user_id, item_id, logged_at, portion_size FROM diet_logs WHERE log_id = $1 AND user_id = $2",
		entryID, userID,
	).Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.Timestamp, &entry.PortionSize)
	if err != nil {
		return nil, lookupErr(err)
	}
	entry.Timestamp = wallClock(entry.Timestamp)
	return &entry, nil
}

func (r *PostgresRepository) QueryByUserAndDate(ctx context.Context, userID int, day time.Time) ([]domain.DietLogRow, error) {
	return r.queryRows(ctx, dietLogSelect+`
		WHERE d.user_id = $1 AND d.logged_at::date = $2::date
		ORDER BY d.logged_at DESC, d.log_id DESC`,
		userID, day.Format(time.DateOnly))
}

func (r *PostgresRepository) QueryByUser(ctx context.Context, userID, limit int) ([]domain.DietLogRow, error) {
	return r.queryRows(ctx, dietLogSelect+`
		WHERE d.user_id = $1
		ORDER BY d.logged_at DESC, d.log_id DESC
		LIMIT $2`,
		userID, limit)
}

func (r *PostgresRepository) queryRows(ctx context.Context, query string, args ...any) ([]domain.DietLogRow, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	result := []domain.DietLogRow{}
	for rows.Next() {
		var row domain.DietLogRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.ItemID, &row.Timestamp, &row.PortionSize,
			&row.ItemName, &row.RestaurantID, &row.RestaurantName,
			&row.Base.Calories, &row.Base.Protein, &row.Base.Carbs, &row.Base.Fat); err != nil {
			return nil, unavailable(err)
		}
		row.Timestamp = wallClock(row.Timestamp)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, entryID, userID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM diet_logs WHERE log_id = $1 AND user_id = $2", entryID, userID)
	if err != nil {
		return 0, unavailable(err)
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdatePortion(ctx context.Context, entryID, userID int, portion float64) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE diet_logs SET portion_size = $1 WHERE log_id = $2 AND user_id = $3", portion, entryID, userID)
	if err != nil {
		return 0, writeErr(err)
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, userID, restaurantID int) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorites (user_id, restaurant_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", userID, restaurantID)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, restaurantID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND restaurant_id = $2", userID, restaurantID)
	if err != nil {
		return 0, unavailable(err)
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID int) ([]domain.Favorite, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id, restaurant_id, created_at FROM favorites WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.UserID, &f.RestaurantID, &f.CreatedAt); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Skipping invalid favorite row")
			continue
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

const userColumns = `user_id, username, password_hash, mode, budget, target_calories, target_protein, target_fat, created_at`

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, mode, budget, target_calories, target_protein, target_fat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id, created_at`,
		user.Username, user.PasswordHash, user.Mode, user.Budget,
		user.TargetCalories, user.TargetProtein, user.TargetFat,
	).Scan(&user.ID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("username %q: %w", user.Username, domain.ErrConflict)
	}
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = $1", id)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user     domain.User
		calories sql.NullInt64
		protein  sql.NullFloat64
		fat      sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash,
		&user.Mode, &user.Budget, &calories, &protein, &fat, &user.CreatedAt)
	if err != nil {
		return nil, lookupErr(err)
	}
	if calories.Valid {
		v := int(calories.Int64)
		user.TargetCalories = &v
	}
	if protein.Valid {
		user.TargetProtein = &protein.Float64
	}
	if fat.Valid {
		user.TargetFat = &fat.Float64
	}
	return &user, nil
}
