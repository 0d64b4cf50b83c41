package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dietmap/diet-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

const (
	RestaurantsFile = "restaurants.csv"
	MenuItemsFile   = "menu_items.csv"
)

var (
	restaurantHeader = []string{"restaurantID", "name", "address", "averageRating", "priceRange", "foodType", "vegetarianOption"}
	menuItemHeader   = []string{"itemID", "restaurantID", "name", "description", "price", "calories", "protein", "carbs", "fat"}
)

// CSVCatalog reads the catalogue dataset from a directory holding
// restaurants.csv and menu_items.csv. Files may carry a UTF-8 BOM.
type CSVCatalog struct {
	Dir string
}

func NewCSVCatalog(dir string) *CSVCatalog {
	return &CSVCatalog{Dir: dir}
}

func (c *CSVCatalog) LoadAll(ctx context.Context) ([]domain.Restaurant, error) {
	restaurantRows, err := c.readFile(RestaurantsFile, restaurantHeader)
	if err != nil {
		return nil, err
	}
	itemRows, err := c.readFile(MenuItemsFile, menuItemHeader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	restaurants := make([]domain.Restaurant, 0, len(restaurantRows))
	index := make(map[int]int, len(restaurantRows))
	for line, row := range restaurantRows {
		rest, err := parseRestaurant(row)
		if err != nil {
			log.WithError(err).WithField("line", line+2).Warn("Skipping invalid restaurant record")
			continue
		}
		if _, dup := index[rest.ID]; dup {
			log.WithField("restaurant_id", rest.ID).Warn("Skipping duplicate restaurant record")
			continue
		}
		index[rest.ID] = len(restaurants)
		restaurants = append(restaurants, rest)
	}

	seenItems := make(map[int]struct{}, len(itemRows))
	for line, row := range itemRows {
		item, err := parseMenuItem(row)
		if err != nil {
			log.WithError(err).WithField("line", line+2).Warn("Skipping invalid menu item record")
			continue
		}
		i, ok := index[item.RestaurantID]
		if !ok {
			log.WithField("item_id", item.ID).Warn("Skipping menu item of unknown restaurant")
			continue
		}
		if _, dup := seenItems[item.ID]; dup {
			log.WithField("item_id", item.ID).Warn("Skipping duplicate menu item record")
			continue
		}
		seenItems[item.ID] = struct{}{}
		_ = restaurants[i].AddItem(item)
	}

	return restaurants, nil
}

func (c *CSVCatalog) FindByID(ctx context.Context, id int) (*domain.Restaurant, error) {
	restaurants, err := c.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range restaurants {
		if restaurants[i].ID == id {
			return &restaurants[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// readFile returns the records keyed by header name.
func (c *CSVCatalog) readFile(name string, required []string) ([]map[string]string, error) {
	f, err := os.Open(filepath.Join(c.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()
	return readRecords(f, required)
}

func readRecords(r io.Reader, required []string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, domain.NewValidationError(col, "missing column")
		}
	}

	var records []map[string]string
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		record := make(map[string]string, len(required))
		for _, col := range required {
			if i := columns[col]; i < len(fields) {
				record[col] = strings.TrimSpace(fields[i])
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRestaurant(row map[string]string) (domain.Restaurant, error) {
	id, err := strconv.Atoi(row["restaurantID"])
	if err != nil {
		return domain.Restaurant{}, domain.NewValidationError("restaurantID", "not an integer")
	}
	rating, err := parseFloat(row["averageRating"])
	if err != nil {
		return domain.Restaurant{}, domain.NewValidationError("averageRating", "not a number")
	}
	tier := 0
	if v := row["priceRange"]; v != "" {
		if tier, err = strconv.Atoi(v); err != nil {
			return domain.Restaurant{}, domain.NewValidationError("priceRange", "not an integer")
		}
	}
	veg, ok := domain.ParseVegetarianOption(row["vegetarianOption"])
	if !ok {
		return domain.Restaurant{}, domain.NewValidationError("vegetarianOption", "unknown option "+row["vegetarianOption"])
	}
	return domain.NewRestaurant(id, row["name"], row["address"], rating,
		domain.PriceTier(tier), domain.FoodCategory(row["foodType"]), veg)
}

func parseMenuItem(row map[string]string) (domain.MenuItem, error) {
	id, err := strconv.Atoi(row["itemID"])
	if err != nil {
		return domain.MenuItem{}, domain.NewValidationError("itemID", "not an integer")
	}
	restaurantID, err := strconv.Atoi(row["restaurantID"])
	if err != nil {
		return domain.MenuItem{}, domain.NewValidationError("restaurantID", "not an integer")
	}

	var facts domain.Nutrition
	price, err := parseFloat(row["price"])
	if err != nil {
		return domain.MenuItem{}, domain.NewValidationError("price", "not a number")
	}
	calories, err := parseFloat(row["calories"])
	if err != nil {
		return domain.MenuItem{}, domain.NewValidationError("calories", "not a number")
	}
	facts.Calories = int(calories)
	for col, dst := range map[string]*float64{"protein": &facts.Protein, "carbs": &facts.Carbs, "fat": &facts.Fat} {
		if *dst, err = parseFloat(row[col]); err != nil {
			return domain.MenuItem{}, domain.NewValidationError(col, "not a number")
		}
	}
	return domain.NewMenuItem(id, restaurantID, row["name"], row["description"], price, facts)
}

// parseFloat treats an empty cell as zero.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
