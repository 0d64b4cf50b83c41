package httpapi_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "dietmap/analytics-svc/internal/api/http"
	"dietmap/analytics-svc/internal/domain"
	"dietmap/analytics-svc/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_TopItems(t *testing.T) {
	type testCase struct {
		name         string
		query        string
		prepareMocks func(m *mocks.AnalyticsInterface)
		wantStatus   int
	}

	ranking := domain.Ranking[domain.ItemPopularity]{
		Date:   "2024-06-10",
		Source: domain.SourceRedis,
		Items:  []domain.ItemPopularity{{ItemID: 42, ItemName: "招牌滷肉飯", RestaurantID: 7, Score: 3}},
	}

	tests := []testCase{
		{
			name:  "defaults to today and ten",
			query: "",
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("Today").Return("2024-06-10")
				m.On("TopItems", mock.Anything, "2024-06-10", 10).Return(ranking, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "explicit date and limit",
			query: "?date=2024-06-09&limit=3",
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("TopItems", mock.Anything, "2024-06-09", 3).Return(ranking, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "limit capped",
			query: "?date=2024-06-10&limit=500",
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("TopItems", mock.Anything, "2024-06-10", 50).Return(ranking, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:         "bad date",
			query:        "?date=10-06-2024",
			prepareMocks: func(m *mocks.AnalyticsInterface) {},
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "zero limit",
			query:        "?date=2024-06-10&limit=0",
			prepareMocks: func(m *mocks.AnalyticsInterface) {},
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:  "stores unavailable",
			query: "?date=2024-06-10",
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("TopItems", mock.Anything, "2024-06-10", 10).
					Return(domain.Ranking[domain.ItemPopularity]{}, fmt.Errorf("%w: refused", domain.ErrStoreUnavailable))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:  "unexpected failure",
			query: "?date=2024-06-10",
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("TopItems", mock.Anything, "2024-06-10", 10).
					Return(domain.Ranking[domain.ItemPopularity]{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			analytics := mocks.NewAnalyticsInterface(t)
			testCase.prepareMocks(analytics)
			router := httpapi.NewRouter(httpapi.NewHandler(analytics))

			req := httptest.NewRequest(http.MethodGet, "/api/analytics/top-items"+testCase.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, testCase.wantStatus, rec.Code)
			if testCase.wantStatus == http.StatusOK {
				var got domain.Ranking[domain.ItemPopularity]
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, ranking, got)
			}
		})
	}
}

func TestHandler_TopRestaurants(t *testing.T) {
	analytics := mocks.NewAnalyticsInterface(t)
	ranking := domain.Ranking[domain.RestaurantPopularity]{
		Date:   "2024-06-10",
		Source: domain.SourcePostgres,
		Items:  []domain.RestaurantPopularity{{RestaurantID: 7, Name: "阿婆古早味", Score: 4}},
	}
	analytics.On("TopRestaurants", mock.Anything, "2024-06-10", 5).Return(ranking, nil)
	router := httpapi.NewRouter(httpapi.NewHandler(analytics))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/top-restaurants?date=2024-06-10&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Ranking[domain.RestaurantPopularity]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, ranking, got)
}

func TestHandler_UserIntake(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		analytics := mocks.NewAnalyticsInterface(t)
		analytics.On("Today").Return("2024-06-10")
		analytics.On("UserIntake", mock.Anything, 12, "2024-06-10").
			Return(&domain.UserIntake{UserID: 12, Date: "2024-06-10", Calories: 1110.5, Entries: 2}, nil)
		router := httpapi.NewRouter(httpapi.NewHandler(analytics))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/users/12/intake", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.UserIntake
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, 1110.5, got.Calories)
		assert.Equal(t, 2, got.Entries)
	})

	t.Run("redis down", func(t *testing.T) {
		analytics := mocks.NewAnalyticsInterface(t)
		analytics.On("UserIntake", mock.Anything, 12, "2024-06-10").
			Return(nil, domain.ErrStoreUnavailable)
		router := httpapi.NewRouter(httpapi.NewHandler(analytics))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/users/12/intake?date=2024-06-10", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("non numeric user", func(t *testing.T) {
		analytics := mocks.NewAnalyticsInterface(t)
		router := httpapi.NewRouter(httpapi.NewHandler(analytics))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/users/abc/intake", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Health(t *testing.T) {
	router := httpapi.NewRouter(httpapi.NewHandler(mocks.NewAnalyticsInterface(t)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analytics-svc")
}
