package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"dietmap/analytics-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Key layout written by agg-svc.
func itemsKey(day string) string       { return "popular:items:" + day }
func restaurantsKey(day string) string { return "popular:restaurants:" + day }
func intakeKey(userID int, day string) string {
	return fmt.Sprintf("intake:%d:%s", userID, day)
}

type AnalyticsService struct {
	db  *sql.DB
	rdb *redis.Client
	now func() time.Time
}

func NewAnalyticsService(db *sql.DB, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{
		db:  db,
		rdb: rdb,
		now: time.Now,
	}
}

func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) Today() string {
	return s.now().Format(time.DateOnly)
}

// TopItems ranks menu items by portions logged on day. An empty or
// unreachable Redis set falls back to aggregating diet_logs.
func (s *AnalyticsService) TopItems(ctx context.Context, day string, limit int) (domain.Ranking[domain.ItemPopularity], error) {
	ranking := domain.Ranking[domain.ItemPopularity]{Date: day, Source: domain.SourceRedis}

	scores, err := s.rdb.ZRevRangeWithScores(ctx, itemsKey(day), 0, int64(limit-1)).Result()
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, ranking items from Postgres")
	}
	if err != nil || len(scores) == 0 {
		ranking.Source = domain.SourcePostgres
		ranking.Items, err = s.topItemsFromDB(ctx, day, limit)
		return ranking, err
	}

	ids := memberIDs(scores)
	refs, err := s.itemRefs(ctx, ids)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve item names")
	}

	ranking.Items = make([]domain.ItemPopularity, 0, len(scores))
	for i, z := range scores {
		if ids[i] == 0 {
			log.WithField("member", z.Member).Warn("Skipping non-numeric ranking member")
			continue
		}
		ref := refs[ids[i]]
		ranking.Items = append(ranking.Items, domain.ItemPopularity{
			ItemID:       ids[i],
			ItemName:     ref.ItemName,
			RestaurantID: ref.RestaurantID,
			Score:        z.Score,
		})
	}
	return ranking, nil
}

func (s *AnalyticsService) topItemsFromDB(ctx context.Context, day string, limit int) ([]domain.ItemPopularity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.item_id, m.name, m.restaurant_id, SUM(d.portion_size) AS score
		FROM diet_logs d
		JOIN menu_items m ON m.item_id = d.item_id
		WHERE d.logged_at::date = $1::date
		GROUP BY m.item_id, m.name, m.restaurant_id
		ORDER BY score DESC, m.item_id
		LIMIT $2
	`, day, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	items := []domain.ItemPopularity{}
	for rows.Next() {
		var item domain.ItemPopularity
		if err := rows.Scan(&item.ItemID, &item.ItemName, &item.RestaurantID, &item.Score); err != nil {
			log.WithError(err).Warn("Skipping invalid item ranking row")
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *AnalyticsService) itemRefs(ctx context.Context, ids []int) (map[int]domain.ItemPopularity, error) {
	refs := make(map[int]domain.ItemPopularity, len(ids))
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, name, restaurant_id FROM menu_items WHERE item_id = ANY($1)`, pq.Array(toInt64(ids)))
	if err != nil {
		return refs, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref domain.ItemPopularity
		if err := rows.Scan(&ref.ItemID, &ref.ItemName, &ref.RestaurantID); err != nil {
			log.WithError(err).Warn("Skipping invalid menu item row")
			continue
		}
		refs[ref.ItemID] = ref
	}
	return refs, rows.Err()
}

// TopRestaurants ranks restaurants by entries logged on day.
func (s *AnalyticsService) TopRestaurants(ctx context.Context, day string, limit int) (domain.Ranking[domain.RestaurantPopularity], error) {
	ranking := domain.Ranking[domain.RestaurantPopularity]{Date: day, Source: domain.SourceRedis}

	scores, err := s.rdb.ZRevRangeWithScores(ctx, restaurantsKey(day), 0, int64(limit-1)).Result()
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, ranking restaurants from Postgres")
	}
	if err != nil || len(scores) == 0 {
		ranking.Source = domain.SourcePostgres
		ranking.Items, err = s.topRestaurantsFromDB(ctx, day, limit)
		return ranking, err
	}

	ids := memberIDs(scores)
	names, err := s.restaurantNames(ctx, ids)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve restaurant names")
	}

	ranking.Items = make([]domain.RestaurantPopularity, 0, len(scores))
	for i, z := range scores {
		if ids[i] == 0 {
			log.WithField("member", z.Member).Warn("Skipping non-numeric ranking member")
			continue
		}
		ranking.Items = append(ranking.Items, domain.RestaurantPopularity{
			RestaurantID: ids[i],
			Name:         names[ids[i]],
			Score:        z.Score,
		})
	}
	return ranking, nil
}

func (s *AnalyticsService) topRestaurantsFromDB(ctx context.Context, day string, limit int) ([]domain.RestaurantPopularity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.restaurant_id, r.name, COUNT(*) AS score
		FROM diet_logs d
		JOIN menu_items m ON m.item_id = d.item_id
		JOIN restaurants r ON r.restaurant_id = m.restaurant_id
		WHERE d.logged_at::date = $1::date
		GROUP BY r.restaurant_id, r.name
		ORDER BY score DESC, r.restaurant_id
		LIMIT $2
	`, day, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	restaurants := []domain.RestaurantPopularity{}
	for rows.Next() {
		var r domain.RestaurantPopularity
		if err := rows.Scan(&r.RestaurantID, &r.Name, &r.Score); err != nil {
			log.WithError(err).Warn("Skipping invalid restaurant ranking row")
			continue
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func (s *AnalyticsService) restaurantNames(ctx context.Context, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	rows, err := s.db.QueryContext(ctx,
		`SELECT restaurant_id, name FROM restaurants WHERE restaurant_id = ANY($1)`, pq.Array(toInt64(ids)))
	if err != nil {
		return names, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			log.WithError(err).Warn("Skipping invalid restaurant row")
			continue
		}
		names[id] = name
	}
	return names, rows.Err()
}

// UserIntake reads the running totals for a user; a day without entries
// is all zeros.
func (s *AnalyticsService) UserIntake(ctx context.Context, userID int, day string) (*domain.UserIntake, error) {
	fields, err := s.rdb.HGetAll(ctx, intakeKey(userID, day)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	intake := &domain.UserIntake{UserID: userID, Date: day}
	intake.Calories, _ = strconv.ParseFloat(fields["calories"], 64)
	intake.Entries, _ = strconv.Atoi(fields["entries"])
	return intake, nil
}

// memberIDs parses sorted-set members; unparsable members map to 0.
func memberIDs(scores []redis.Z) []int {
	ids := make([]int, len(scores))
	for i, z := range scores {
		member, _ := z.Member.(string)
		ids[i], _ = strconv.Atoi(member)
	}
	return ids
}

func toInt64(ids []int) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, int64(id))
		}
	}
	return out
}
