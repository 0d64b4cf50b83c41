package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dietmap/diet-svc/internal/domain"
	"dietmap/diet-svc/internal/nutrition"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultPortionSize = 1.0
	// Portion bounds match the diet_logs.portion_size constraint.
	MinPortionSize     = 0.01
	MaxPortionSize     = 999.99
	recentEntriesLimit = 50
	// otherMealHour stands in for an unspecified meal on a day other than today.
	otherMealHour = 20
)

// ItemCatalog resolves menu items from the loaded catalogue.
type ItemCatalog interface {
	Item(id int) (domain.MenuItem, bool)
	RestaurantName(id int) string
}

type AddEntryRequest struct {
	UserID      int
	ItemID      int
	PortionSize *float64
	Timestamp   *time.Time
	Date        string
	Meal        string
}

type DietService struct {
	repo      DietLogRepository
	catalog   ItemCatalog
	users     UserRepository
	publisher DietEventPublisher
	now       func() time.Time
}

func NewDietService(repo DietLogRepository, catalog ItemCatalog, users UserRepository, publisher DietEventPublisher) *DietService {
	return &DietService{
		repo:      repo,
		catalog:   catalog,
		users:     users,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock, mainly for tests.
func (s *DietService) WithClock(now func() time.Time) *DietService {
	s.now = now
	return s
}

func (s *DietService) Today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *DietService) AddEntry(ctx context.Context, req AddEntryRequest) (int, error) {
	if req.ItemID <= 0 {
		return 0, domain.NewValidationError("item_id", "is required")
	}
	portion := DefaultPortionSize
	if req.PortionSize != nil {
		portion = *req.PortionSize
	}
	if err := validatePortion(portion); err != nil {
		return 0, err
	}
	item, ok := s.catalog.Item(req.ItemID)
	if !ok {
		return 0, fmt.Errorf("menu item %d: %w", req.ItemID, domain.ErrNotFound)
	}
	timestamp, err := ResolveTimestamp(s.now(), req)
	if err != nil {
		return 0, err
	}

	entry := &domain.DietLogEntry{
		UserID:      req.UserID,
		ItemID:      req.ItemID,
		Timestamp:   timestamp,
		PortionSize: portion,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return 0, err
	}

	s.publish(ctx, domain.DietEvent{
		Type:         domain.EventDietLogged,
		LogID:        entry.ID,
		UserID:       entry.UserID,
		ItemID:       entry.ItemID,
		RestaurantID: item.RestaurantID,
		Calories:     item.Calories,
		PortionSize:  entry.PortionSize,
		Timestamp:    entry.Timestamp,
	})

	return entry.ID, nil
}

// ResolveTimestamp picks the entry time: an explicit timestamp wins, then a
// date with a meal slot, then now. Slot hours classify back to the same meal.
func ResolveTimestamp(now time.Time, req AddEntryRequest) (time.Time, error) {
	if req.Timestamp != nil {
		return *req.Timestamp, nil
	}
	datePart := strings.TrimSpace(req.Date)
	if datePart == "" {
		return now, nil
	}
	if i := strings.Index(datePart, "T"); i >= 0 {
		datePart = datePart[:i]
	}
	day, err := time.ParseInLocation(time.DateOnly, datePart, now.Location())
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}

	if hour, ok := nutrition.SlotHour(domain.MealBucket(strings.ToLower(strings.TrimSpace(req.Meal)))); ok {
		return atHour(day, hour), nil
	}
	if now.Format(time.DateOnly) == datePart {
		return now, nil
	}
	return atHour(day, otherMealHour), nil
}

func validatePortion(portion float64) error {
	if !(portion >= MinPortionSize && portion <= MaxPortionSize) {
		return domain.NewValidationError("portion_size", fmt.Sprintf("must be between %.2f and %.2f", MinPortionSize, MaxPortionSize))
	}
	return nil
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// ListEntries returns entries newest first. With a nil day the most recent
// entries are returned regardless of date.
func (s *DietService) ListEntries(ctx context.Context, userID int, day *time.Time) ([]domain.EnrichedEntry, error) {
	rows, err := s.rows(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return s.enrich(rows), nil
}

func (s *DietService) rows(ctx context.Context, userID int, day *time.Time) ([]domain.DietLogRow, error) {
	if day == nil {
		return s.repo.QueryByUser(ctx, userID, recentEntriesLimit)
	}
	return s.repo.QueryByUserAndDate(ctx, userID, *day)
}

// enrich scales facts per entry and orders them newest first, higher ids
// first on equal timestamps. Rows the store could not join are filled
// from the catalogue snapshot when the item is still known there.
func (s *DietService) enrich(rows []domain.DietLogRow) []domain.EnrichedEntry {
	entries := make([]domain.EnrichedEntry, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.ItemName == "" && s.catalog != nil {
			if item, ok := s.catalog.Item(row.ItemID); ok {
				row.ItemName = item.Name
				row.RestaurantID = item.RestaurantID
				row.RestaurantName = s.catalog.RestaurantName(item.RestaurantID)
				row.Base = item.Nutrition
			}
		}
		entries = append(entries, domain.EnrichedEntry{
			DietLogEntry:   row.DietLogEntry,
			ItemName:       row.ItemName,
			RestaurantID:   row.RestaurantID,
			RestaurantName: row.RestaurantName,
			Nutrition:      nutrition.Scale(row.Base, row.PortionSize),
			Meal:           nutrition.Classify(row.Timestamp),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})
	return entries
}

// DeleteEntry reports false when the entry does not exist or belongs to
// another user.
func (s *DietService) DeleteEntry(ctx context.Context, entryID, userID int) (bool, error) {
	entry, err := s.repo.Get(ctx, entryID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	affected, err := s.repo.Delete(ctx, entryID, userID)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	s.publish(ctx, s.entryEvent(domain.EventDietRemoved, entry))
	return true, nil
}

// UpdatePortionSize reports false when the entry does not exist or belongs
// to another user. The published event carries the previous portion so the
// aggregates can apply the difference.
func (s *DietService) UpdatePortionSize(ctx context.Context, entryID, userID int, portion float64) (bool, error) {
	if err := validatePortion(portion); err != nil {
		return false, err
	}
	entry, err := s.repo.Get(ctx, entryID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	affected, err := s.repo.UpdatePortion(ctx, entryID, userID, portion)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	if entry.PortionSize == portion {
		return true, nil
	}

	event := s.entryEvent(domain.EventDietUpdated, entry)
	event.PreviousPortion = entry.PortionSize
	event.PortionSize = portion
	s.publish(ctx, event)
	return true, nil
}

// entryEvent describes a stored entry, with restaurant and calories taken
// from the catalogue when the item is still listed.
func (s *DietService) entryEvent(eventType string, entry *domain.DietLogEntry) domain.DietEvent {
	event := domain.DietEvent{
		Type:        eventType,
		LogID:       entry.ID,
		UserID:      entry.UserID,
		ItemID:      entry.ItemID,
		PortionSize: entry.PortionSize,
		Timestamp:   entry.Timestamp,
	}
	if item, ok := s.catalog.Item(entry.ItemID); ok {
		event.RestaurantID = item.RestaurantID
		event.Calories = item.Calories
	}
	return event
}

func (s *DietService) DailySummary(ctx context.Context, userID int, day time.Time) (*domain.DaySummary, error) {
	rows, err := s.repo.QueryByUserAndDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	entries := s.enrich(rows)
	totals := nutrition.Totals(rows)

	summary := &domain.DaySummary{
		Date:    day.Format(time.DateOnly),
		Totals:  totals,
		ByMeal:  nutrition.TotalsByMeal(rows),
		Entries: entries,
	}

	if s.users != nil && userID > 0 {
		user, err := s.users.GetUser(ctx, userID)
		switch {
		case err == nil:
			summary.Targets = nutrition.Remaining(totals, user)
		case !errors.Is(err, domain.ErrNotFound):
			log.WithError(err).WithField("user_id", userID).Warn("Failed to load user targets")
		}
	}
	return summary, nil
}

func (s *DietService) publish(ctx context.Context, event domain.DietEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDietEvent(ctx, event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"type":   event.Type,
			"log_id": event.LogID,
		}).Warn("Failed to publish diet event")
	}
}
