package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"dietmap/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	PopularTTL = 7 * 24 * time.Hour
	IntakeTTL  = 48 * time.Hour
)

func ItemsKey(day string) string {
	return "popular:items:" + day
}

func RestaurantsKey(day string) string {
	return "popular:restaurants:" + day
}

func IntakeKey(userID int, day string) string {
	return fmt.Sprintf("intake:%d:%s", userID, day)
}

type Store struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
	}
}

// UpdatePopularity folds one event into the daily sorted sets and the
// user's intake hash. sign is +1 for a logged entry and -1 for a removal;
// members that drop to zero are pruned.
func (s *Store) UpdatePopularity(ctx context.Context, event domain.DietEvent, sign float64) error {
	day := event.Day()
	itemsKey := ItemsKey(day)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, itemsKey, sign*event.PortionSize, strconv.Itoa(event.ItemID))
		pipe.ZRemRangeByScore(ctx, itemsKey, "-inf", "0")
		pipe.Expire(ctx, itemsKey, PopularTTL)

		if event.RestaurantID > 0 {
			restaurantsKey := RestaurantsKey(day)
			pipe.ZIncrBy(ctx, restaurantsKey, sign, strconv.Itoa(event.RestaurantID))
			pipe.ZRemRangeByScore(ctx, restaurantsKey, "-inf", "0")
			pipe.Expire(ctx, restaurantsKey, PopularTTL)
		}

		if event.UserID > 0 {
			intakeKey := IntakeKey(event.UserID, day)
			pipe.HIncrByFloat(ctx, intakeKey, "calories", sign*float64(event.Calories)*event.PortionSize)
			pipe.HIncrBy(ctx, intakeKey, "entries", int64(sign))
			pipe.Expire(ctx, intakeKey, IntakeTTL)
		}
		return nil
	})
	return err
}

// AdjustPortion applies a portion change of an existing entry: the item
// score and the user's calories move by delta portions. Entry and
// restaurant counts are unchanged.
func (s *Store) AdjustPortion(ctx context.Context, event domain.DietEvent, delta float64) error {
	day := event.Day()
	itemsKey := ItemsKey(day)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, itemsKey, delta, strconv.Itoa(event.ItemID))
		pipe.ZRemRangeByScore(ctx, itemsKey, "-inf", "0")
		pipe.Expire(ctx, itemsKey, PopularTTL)

		if event.UserID > 0 {
			intakeKey := IntakeKey(event.UserID, day)
			pipe.HIncrByFloat(ctx, intakeKey, "calories", delta*float64(event.Calories))
			pipe.Expire(ctx, intakeKey, IntakeTTL)
		}
		return nil
	})
	return err
}

// AdjustTimesLogged moves the all-time counter of a menu item, never below zero.
func (s *Store) AdjustTimesLogged(ctx context.Context, itemID, delta int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE menu_items
		SET times_logged = GREATEST(times_logged + $1, 0)
		WHERE item_id = $2
	`, delta, itemID)
	return err
}
