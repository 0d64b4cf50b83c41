package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dietmap/diet-svc/internal/domain"
	"dietmap/diet-svc/internal/mocks"
	"dietmap/diet-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 10, 15, 4, 5, 0, time.Local)

func clock() time.Time { return fixedNow }

// memoryLog keeps entries in memory in insertion order and leaves joins
// and ordering to the service.
type memoryLog struct {
	mu      sync.Mutex
	nextID  int
	entries []domain.DietLogEntry
}

func (m *memoryLog) Insert(_ context.Context, entry *domain.DietLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryLog) Get(_ context.Context, entryID, userID int) (*domain.DietLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == entryID && e.UserID == userID {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryLog) query(userID int, keep func(domain.DietLogEntry) bool) []domain.DietLogRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []domain.DietLogRow
	for _, e := range m.entries {
		if e.UserID == userID && keep(e) {
			rows = append(rows, domain.DietLogRow{DietLogEntry: e})
		}
	}
	return rows
}

func (m *memoryLog) QueryByUserAndDate(_ context.Context, userID int, day time.Time) ([]domain.DietLogRow, error) {
	date := day.Format(time.DateOnly)
	return m.query(userID, func(e domain.DietLogEntry) bool { return e.Timestamp.Format(time.DateOnly) == date }), nil
}

func (m *memoryLog) QueryByUser(_ context.Context, userID, limit int) ([]domain.DietLogRow, error) {
	rows := m.query(userID, func(domain.DietLogEntry) bool { return true })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memoryLog) Delete(_ context.Context, entryID, userID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID == entryID && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryLog) UpdatePortion(_ context.Context, entryID, userID int, portion float64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID == entryID && e.UserID == userID {
			m.entries[i].PortionSize = portion
			return 1, nil
		}
	}
	return 0, nil
}

var _ service.DietLogRepository = (*memoryLog)(nil)

func catalogRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{
			ID: 7, Name: "阿婆古早味", AverageRating: 4.5, PriceTier: domain.PriceTierLow, Category: "台式", Vegetarian: domain.Omnivore,
			Menu: []domain.MenuItem{
				{ID: 42, RestaurantID: 7, Name: "招牌滷肉飯", Price: 45, Nutrition: domain.Nutrition{Calories: 555, Protein: 15.3, Carbs: 60.1, Fat: 25.5}},
				{ID: 43, RestaurantID: 7, Name: "燙青菜", Price: 40, Nutrition: domain.Nutrition{Calories: 80, Protein: 3, Carbs: 8, Fat: 4.2}},
			},
		},
		{
			ID: 9, Name: "輕食光沙拉", AverageRating: 4.9, PriceTier: domain.PriceTierMid, Category: "健康餐", Vegetarian: domain.Vegan,
			Menu: []domain.MenuItem{
				{ID: 90, RestaurantID: 9, Name: "藜麥沙拉", Price: 160, Nutrition: domain.Nutrition{Calories: 320, Protein: 9, Carbs: 40, Fat: 12}},
			},
		},
	}
}

func loadedCatalog(t *testing.T) *service.CatalogService {
	repo := mocks.NewRestaurantRepository(t)
	repo.On("LoadAll", mock.Anything).Return(catalogRestaurants(), nil).Once()

	catalog := service.NewCatalogService(repo, nil)
	_, err := catalog.Reload(context.Background())
	require.NoError(t, err)
	return catalog
}

func portion(v float64) *float64 { return &v }

func TestResolveTimestamp(t *testing.T) {
	explicit := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name    string
		req     service.AddEntryRequest
		want    time.Time
		wantErr bool
	}{
		{
			name: "explicit timestamp wins over meal slot",
			req:  service.AddEntryRequest{Timestamp: &explicit, Date: "2024-06-01", Meal: "dinner"},
			want: explicit,
		},
		{
			name: "nothing supplied uses now",
			req:  service.AddEntryRequest{},
			want: fixedNow,
		},
		{
			name: "meal without date uses now",
			req:  service.AddEntryRequest{Meal: "breakfast"},
			want: fixedNow,
		},
		{
			name: "breakfast slot",
			req:  service.AddEntryRequest{Date: "2024-06-01", Meal: "breakfast"},
			want: time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local),
		},
		{
			name: "lunch slot with ISO date",
			req:  service.AddEntryRequest{Date: "2024-06-01T16:00:00.000Z", Meal: "Lunch"},
			want: time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local),
		},
		{
			name: "dinner slot",
			req:  service.AddEntryRequest{Date: "2024-06-01", Meal: "dinner"},
			want: time.Date(2024, 6, 1, 18, 0, 0, 0, time.Local),
		},
		{
			name: "other on today uses now",
			req:  service.AddEntryRequest{Date: "2024-06-10", Meal: "other"},
			want: fixedNow,
		},
		{
			name: "unspecified meal on another day is evening",
			req:  service.AddEntryRequest{Date: "2024-06-01"},
			want: time.Date(2024, 6, 1, 20, 0, 0, 0, time.Local),
		},
		{
			name: "unknown meal behaves like other",
			req:  service.AddEntryRequest{Date: "2024-06-11", Meal: "brunch"},
			want: time.Date(2024, 6, 11, 20, 0, 0, 0, time.Local),
		},
		{
			name:    "malformed date",
			req:     service.AddEntryRequest{Date: "06/01/2024", Meal: "lunch"},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := service.ResolveTimestamp(fixedNow, testCase.req)
			if testCase.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, testCase.want.Equal(got), "want %v, got %v", testCase.want, got)
		})
	}
}

func TestDietService_AddEntry(t *testing.T) {
	catalog := loadedCatalog(t)

	tests := []struct {
		name          string
		req           service.AddEntryRequest
		prepareMocks  func(repo *mocks.DietLogRepository, publisher *mocks.DietEventPublisher)
		expectedID    int
		expectedError error
	}{
		{
			name: "success_publishes_event",
			req:  service.AddEntryRequest{UserID: 1, ItemID: 42, PortionSize: portion(2), Date: "2024-06-01", Meal: "lunch"},
			prepareMocks: func(repo *mocks.DietLogRepository, publisher *mocks.DietEventPublisher) {
				repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.DietLogEntry) bool {
					return e.UserID == 1 && e.ItemID == 42 && e.PortionSize == 2 && e.Timestamp.Hour() == 12
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.DietLogEntry).ID = 77
				}).Return(nil).Once()
				publisher.On("PublishDietEvent", mock.Anything, mock.MatchedBy(func(e domain.DietEvent) bool {
					return e.Type == domain.EventDietLogged && e.LogID == 77 && e.RestaurantID == 7 && e.Calories == 555
				})).Return(nil).Once()
			},
			expectedID: 77,
		},
		{
			name: "default_portion_and_publish_failure_is_ignored",
			req:  service.AddEntryRequest{UserID: 1, ItemID: 43},
			prepareMocks: func(repo *mocks.DietLogRepository, publisher *mocks.DietEventPublisher) {
				repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.DietLogEntry) bool {
					return e.PortionSize == 1 && e.Timestamp.Equal(fixedNow)
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.DietLogEntry).ID = 78
				}).Return(nil).Once()
				publisher.On("PublishDietEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
			expectedID: 78,
		},
		{
			name:          "error_zero_portion",
			req:           service.AddEntryRequest{UserID: 1, ItemID: 42, PortionSize: portion(0)},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "error_negative_portion",
			req:           service.AddEntryRequest{UserID: 1, ItemID: 42, PortionSize: portion(-1.5)},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "error_portion_below_column_precision",
			req:           service.AddEntryRequest{UserID: 1, ItemID: 42, PortionSize: portion(0.004)},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "error_portion_above_column_range",
			req:           service.AddEntryRequest{UserID: 1, ItemID: 42, PortionSize: portion(1000)},
			expectedError: domain.ErrValidation,
		},
		{
			name: "largest_portion_accepted",
			req:  service.AddEntryRequest{UserID: 1, ItemID: 43, PortionSize: portion(service.MaxPortionSize)},
			prepareMocks: func(repo *mocks.DietLogRepository, publisher *mocks.DietEventPublisher) {
				repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.DietLogEntry) bool {
					return e.PortionSize == service.MaxPortionSize
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.DietLogEntry).ID = 79
				}).Return(nil).Once()
				publisher.On("PublishDietEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedID: 79,
		},
		{
			name:          "error_missing_item",
			req:           service.AddEntryRequest{UserID: 1},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "error_unknown_item",
			req:           service.AddEntryRequest{UserID: 1, ItemID: 4242},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "error_store_unavailable",
			req:  service.AddEntryRequest{UserID: 1, ItemID: 42},
			prepareMocks: func(repo *mocks.DietLogRepository, _ *mocks.DietEventPublisher) {
				repo.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrStoreUnavailable).Once()
			},
			expectedError: domain.ErrStoreUnavailable,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewDietLogRepository(t)
			publisher := mocks.NewDietEventPublisher(t)
			if testCase.prepareMocks != nil {
				testCase.prepareMocks(repo, publisher)
			}

			svc := service.NewDietService(repo, catalog, nil, publisher).WithClock(clock)
			id, err := svc.AddEntry(context.Background(), testCase.req)

			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedID, id)
		})
	}
}

func TestDietService_AddThenListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &memoryLog{}
	svc := service.NewDietService(store, loadedCatalog(t), nil, nil).WithClock(clock)

	id, err := svc.AddEntry(ctx, service.AddEntryRequest{
		UserID: 1, ItemID: 42, PortionSize: portion(2.0), Meal: "lunch", Date: "2024-06-01",
	})
	require.NoError(t, err)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	entries, err := svc.ListEntries(ctx, 1, &day)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, domain.MealLunch, entry.Meal)
	assert.Equal(t, "招牌滷肉飯", entry.ItemName)
	assert.Equal(t, "阿婆古早味", entry.RestaurantName)
	assert.Equal(t, domain.Nutrition{Calories: 1110, Protein: 30.6, Carbs: 120.2, Fat: 51}, entry.Nutrition)
}

func TestDietService_ListEntriesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := &memoryLog{}
	svc := service.NewDietService(store, loadedCatalog(t), nil, nil).WithClock(clock)

	for _, meal := range []string{"breakfast", "lunch", "dinner"} {
		_, err := svc.AddEntry(ctx, service.AddEntryRequest{UserID: 1, ItemID: 43, Date: "2024-06-01", Meal: meal})
		require.NoError(t, err)
	}
	_, err := svc.AddEntry(ctx, service.AddEntryRequest{UserID: 2, ItemID: 43, Date: "2024-06-01", Meal: "lunch"})
	require.NoError(t, err)

	entries, err := svc.ListEntries(ctx, 1, nil)
	require.NoError(t, err)

	var meals []domain.MealBucket
	for _, e := range entries {
		meals = append(meals, e.Meal)
	}
	assert.Equal(t, []domain.MealBucket{domain.MealDinner, domain.MealLunch, domain.MealBreakfast}, meals)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	entries, err = svc.ListEntries(ctx, 1, &day)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestDietService_ListEntriesEqualTimestampsHigherIDFirst(t *testing.T) {
	ctx := context.Background()
	store := &memoryLog{}
	svc := service.NewDietService(store, loadedCatalog(t), nil, nil).WithClock(clock)

	var ids []int
	for _, item := range []int{42, 43, 90} {
		id, err := svc.AddEntry(ctx, service.AddEntryRequest{UserID: 1, ItemID: item, Date: "2024-06-01", Meal: "lunch"})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	summary, err := svc.DailySummary(ctx, 1, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, summary.Entries, 3)
	assert.Equal(t, []int{ids[2], ids[1], ids[0]},
		[]int{summary.Entries[0].ID, summary.Entries[1].ID, summary.Entries[2].ID})
}

func TestDietService_DeleteEntryChecksOwnership(t *testing.T) {
	ctx := context.Background()
	store := &memoryLog{}
	svc := service.NewDietService(store, loadedCatalog(t), nil, nil).WithClock(clock)

	id, err := svc.AddEntry(ctx, service.AddEntryRequest{UserID: 1, ItemID: 42})
	require.NoError(t, err)

	deleted, err := svc.DeleteEntry(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, deleted)

	entries, err := svc.ListEntries(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	deleted, err = svc.DeleteEntry(ctx, id+100, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteEntry(ctx, id, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	entries, err = svc.ListEntries(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDietService_DeleteEntryPublishesRemoval(t *testing.T) {
	repo := mocks.NewDietLogRepository(t)
	publisher := mocks.NewDietEventPublisher(t)
	svc := service.NewDietService(repo, loadedCatalog(t), nil, publisher)

	entry := &domain.DietLogEntry{ID: 5, UserID: 1, ItemID: 42, PortionSize: 1.5, Timestamp: fixedNow}
	repo.On("Get", mock.Anything, 5, 1).Return(entry, nil).Once()
	repo.On("Delete", mock.Anything, 5, 1).Return(int64(1), nil).Once()
	publisher.On("PublishDietEvent", mock.Anything, mock.MatchedBy(func(e domain.DietEvent) bool {
		return e.Type == domain.EventDietRemoved && e.ItemID == 42 && e.PortionSize == 1.5 &&
			e.RestaurantID == 7 && e.Calories == 555
	})).Return(nil).Once()

	deleted, err := svc.DeleteEntry(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDietService_UpdatePortionSize(t *testing.T) {
	ctx := context.Background()
	store := &memoryLog{}
	svc := service.NewDietService(store, loadedCatalog(t), nil, nil).WithClock(clock)

	id, err := svc.AddEntry(ctx, service.AddEntryRequest{UserID: 1, ItemID: 90})
	require.NoError(t, err)

	for _, bad := range []float64{0, -1, 0.004, 1000} {
		_, err = svc.UpdatePortionSize(ctx, id, 1, bad)
		assert.ErrorIs(t, err, domain.ErrValidation, "portion %v", bad)
	}

	updated, err := svc.UpdatePortionSize(ctx, id, 2, 3)
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = svc.UpdatePortionSize(ctx, id+100, 1, 3)
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = svc.UpdatePortionSize(ctx, id, 1, 0.5)
	require.NoError(t, err)
	assert.True(t, updated)

	entries, err := svc.ListEntries(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 160, entries[0].Nutrition.Calories)
}

func TestDietService_UpdatePortionSizePublishesDifference(t *testing.T) {
	repo := mocks.NewDietLogRepository(t)
	publisher := mocks.NewDietEventPublisher(t)
	svc := service.NewDietService(repo, loadedCatalog(t), nil, publisher)

	entry := &domain.DietLogEntry{ID: 5, UserID: 1, ItemID: 42, PortionSize: 1, Timestamp: fixedNow}
	repo.On("Get", mock.Anything, 5, 1).Return(entry, nil).Twice()
	repo.On("UpdatePortion", mock.Anything, 5, 1, 2.0).Return(int64(1), nil).Once()
	repo.On("UpdatePortion", mock.Anything, 5, 1, 1.0).Return(int64(1), nil).Once()
	publisher.On("PublishDietEvent", mock.Anything, mock.MatchedBy(func(e domain.DietEvent) bool {
		return e.Type == domain.EventDietUpdated && e.LogID == 5 && e.ItemID == 42 &&
			e.PortionSize == 2 && e.PreviousPortion == 1 &&
			e.RestaurantID == 7 && e.Calories == 555 && e.Timestamp.Equal(fixedNow)
	})).Return(nil).Once()

	updated, err := svc.UpdatePortionSize(context.Background(), 5, 1, 2)
	require.NoError(t, err)
	assert.True(t, updated)

	// unchanged portion publishes nothing
	updated, err = svc.UpdatePortionSize(context.Background(), 5, 1, 1)
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestDietService_DailySummary(t *testing.T) {
	ctx := context.Background()
	store := &memoryLog{}
	users := mocks.NewUserRepository(t)
	target := 2000
	users.On("GetUser", mock.Anything, 1).Return(&domain.User{ID: 1, TargetCalories: &target}, nil).Once()

	svc := service.NewDietService(store, loadedCatalog(t), users, nil).WithClock(clock)
	for _, req := range []service.AddEntryRequest{
		{UserID: 1, ItemID: 42, Date: "2024-06-01", Meal: "lunch"},
		{UserID: 1, ItemID: 90, PortionSize: portion(0.5), Date: "2024-06-01", Meal: "dinner"},
		{UserID: 1, ItemID: 43, Date: "2024-06-02", Meal: "lunch"},
	} {
		_, err := svc.AddEntry(ctx, req)
		require.NoError(t, err)
	}

	summary, err := svc.DailySummary(ctx, 1, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", summary.Date)
	assert.Equal(t, domain.Nutrition{Calories: 715, Protein: 19.8, Carbs: 80.1, Fat: 31.5}, summary.Totals)
	assert.Equal(t, 555, summary.ByMeal[domain.MealLunch].Calories)
	assert.Equal(t, 160, summary.ByMeal[domain.MealDinner].Calories)
	assert.Zero(t, summary.ByMeal[domain.MealBreakfast].Calories)
	assert.Len(t, summary.Entries, 2)
	require.NotNil(t, summary.Targets)
	assert.Equal(t, 1285, *summary.Targets.Calories)
}

func TestDietService_StoreUnavailablePropagates(t *testing.T) {
	repo := mocks.NewDietLogRepository(t)
	repo.On("QueryByUser", mock.Anything, 1, 50).Return(nil, domain.ErrStoreUnavailable).Once()

	svc := service.NewDietService(repo, loadedCatalog(t), nil, nil)
	entries, err := svc.ListEntries(context.Background(), 1, nil)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Nil(t, entries)
}
