package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dietmap/diet-svc/internal/domain"
	"dietmap/diet-svc/internal/metrics"
	"dietmap/diet-svc/internal/search"
	"dietmap/diet-svc/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// cardMenuPreview is how many menu items a store card carries in list views.
const cardMenuPreview = 4

type Handler struct {
	Catalog   service.CatalogServiceInterface
	Diet      service.DietServiceInterface
	Favorites service.FavoriteServiceInterface
	Users     service.UserServiceInterface
	Limiter   *RateLimiter
}

func NewHandler(catalog service.CatalogServiceInterface, diet service.DietServiceInterface,
	favorites service.FavoriteServiceInterface, users service.UserServiceInterface, limiter *RateLimiter) *Handler {
	return &Handler{
		Catalog:   catalog,
		Diet:      diet,
		Favorites: favorites,
		Users:     users,
		Limiter:   limiter,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/stores", h.listStores).Methods("GET")
	r.HandleFunc("/api/search", h.searchStores).Methods("GET")
	r.HandleFunc("/api/stores/{id:[0-9]+}", h.getStore).Methods("GET")
	r.HandleFunc("/api/stores/{id:[0-9]+}/qrcode", h.getStoreQRCode).Methods("GET")
	r.HandleFunc("/api/restaurants/list", h.listRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id:[0-9]+}/menu", h.getMenu).Methods("GET")
	r.Handle("/api/catalog/reload", h.auth(h.reloadCatalog)).Methods("POST")

	r.Handle("/api/favorites", h.auth(h.listFavorites)).Methods("GET")
	r.Handle("/api/favorites", h.auth(h.addFavorite)).Methods("POST")
	r.Handle("/api/favorites", h.auth(h.removeFavorite)).Methods("DELETE")

	r.Handle("/api/diet", h.auth(h.listDiet)).Methods("GET")
	r.Handle("/api/diet", h.auth(h.limited(h.addDiet))).Methods("POST")
	r.Handle("/api/diet/summary", h.auth(h.dietSummary)).Methods("GET")
	r.Handle("/api/diet/{id:[0-9]+}", h.auth(h.limited(h.updateDiet))).Methods("PATCH")
	r.Handle("/api/diet/{id:[0-9]+}", h.auth(h.limited(h.deleteDiet))).Methods("DELETE")

	r.HandleFunc("/api/users/register", h.register).Methods("POST")
	r.HandleFunc("/api/users/login", h.login).Methods("POST")
	r.Handle("/api/users/profile", h.auth(h.profile)).Methods("GET")
}

func (h *Handler) auth(fn http.HandlerFunc) http.Handler {
	return RequireAuth(h.Users)(fn)
}

func (h *Handler) limited(fn http.HandlerFunc) http.HandlerFunc {
	if h.Limiter == nil {
		return fn
	}
	return h.Limiter.Handler(fn).ServeHTTP
}

type envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  interface{} `json:"summary,omitempty"`
	Message  string      `json:"message,omitempty"`
	Degraded bool        `json:"degraded,omitempty"`
	Error    string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	body.Success = status < http.StatusBadRequest
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		msg = "internal error"
	}
	writeJSON(w, status, envelope{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":      "healthy",
		"service":     "diet-svc",
		"restaurants": len(h.Catalog.List()),
		"timestamp":   time.Now().Format(time.RFC3339),
	}
	if loaded := h.Catalog.LoadedAt(); !loaded.IsZero() {
		response["catalog_loaded_at"] = loaded.Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// storeCard is the restaurant shape rendered by the store list and detail views.
type storeCard struct {
	ID          int            `json:"restaurant_id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Rating      float64        `json:"average_rating"`
	RatingText  string         `json:"rating"`
	PriceMeta   string         `json:"price_meta"`
	PriceRange  string         `json:"price_range"`
	FoodType    string         `json:"food_type"`
	Vegetarian  string         `json:"vegetarian_option"`
	Menu        []menuItemView `json:"menu"`
	IsFavorited bool           `json:"is_favorited"`
}

type menuItemView struct {
	ID          int    `json:"item_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	domain.Nutrition
}

var priceLabels = map[domain.PriceTier][2]string{
	domain.PriceTierLow:  {"$", "$ 1 ~ 200"},
	domain.PriceTierMid:  {"$$", "$ 200 ~ 400"},
	domain.PriceTierHigh: {"$$$", "$ 400 ~ 600"},
}

// StarRating renders a rating as five stars followed by the value.
func StarRating(rating float64) string {
	full := int(math.Max(0, math.Min(5, rating)))
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full) + fmt.Sprintf(" %.1f", rating)
}

func newStoreCard(r domain.Restaurant, menuLimit int, favorites map[int]bool) storeCard {
	labels, ok := priceLabels[r.PriceTier]
	if !ok {
		labels = priceLabels[domain.PriceTierLow]
	}
	menu := r.Menu
	if menuLimit > 0 && len(menu) > menuLimit {
		menu = menu[:menuLimit]
	}
	items := make([]menuItemView, 0, len(menu))
	for _, item := range menu {
		items = append(items, newMenuItemView(item))
	}
	return storeCard{
		ID:          r.ID,
		Name:        r.Name,
		Address:     r.Address,
		Rating:      r.AverageRating,
		RatingText:  StarRating(r.AverageRating),
		PriceMeta:   labels[0],
		PriceRange:  labels[1],
		FoodType:    string(r.Category),
		Vegetarian:  string(r.Vegetarian),
		Menu:        items,
		IsFavorited: favorites[r.ID],
	}
}

func newMenuItemView(item domain.MenuItem) menuItemView {
	return menuItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       fmt.Sprintf("$%d", int(item.Price)),
		Nutrition:   item.Nutrition,
	}
}

// favoriteSet resolves the caller's favorites when the request carries a
// valid token. Anonymous callers get an empty set.
func (h *Handler) favoriteSet(r *http.Request) map[int]bool {
	set := map[int]bool{}
	token, ok := bearerToken(r)
	if !ok || h.Favorites == nil {
		return set
	}
	userID, err := h.Users.ParseToken(token)
	if err != nil {
		return set
	}
	favorites, err := h.Favorites.List(r.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to load favorites for store cards")
		return set
	}
	for _, f := range favorites {
		set[f.ID] = true
	}
	return set
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, false)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondSearch(w, r, criteria, "tier")
}

func (h *Handler) searchStores(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, true)
	if err != nil {
		writeError(w, err)
		return
	}
	if criteria.SortBy == domain.SortNone && r.URL.Query().Get("sort") == "" {
		criteria.SortBy = domain.SortRating
	}
	h.respondSearch(w, r, criteria, "ceiling")
}

func (h *Handler) respondSearch(w http.ResponseWriter, r *http.Request, criteria domain.FilterCriteria, mode string) {
	results := h.Catalog.Search(criteria)
	metrics.RecordSearch(mode, len(results))

	favorites := h.favoriteSet(r)
	cards := make([]storeCard, 0, len(results))
	for _, rest := range results {
		cards = append(cards, newStoreCard(rest, cardMenuPreview, favorites))
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:     cards,
		Degraded: h.Catalog.LoadedAt().IsZero(),
	})
}

// parseCriteria reads the search query string. The /api/stores form filters
// on an exact tier symbol; the /api/search form takes a numeric max_price.
// An unknown price symbol disables the price filter.
func parseCriteria(r *http.Request, ceiling bool) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	criteria := domain.FilterCriteria{
		Keyword:        strings.TrimSpace(q.Get("keyword")),
		VegetarianOnly: strings.EqualFold(q.Get("vegetarian"), "true"),
		SortBy:         search.ParseSortKey(q.Get("sort")),
	}
	if raw := q.Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				criteria.Categories = append(criteria.Categories, domain.FoodCategory(c))
			}
		}
	}
	if raw := q.Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			return criteria, domain.NewValidationError("min_rating", "not a number")
		}
		criteria.MinRating = &v
	}

	if ceiling {
		if raw := q.Get("max_price"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) {
				return criteria, domain.NewValidationError("max_price", "not a number")
			}
			criteria.Price = domain.MaxPrice(v)
		}
		return criteria, nil
	}
	if tier, ok := search.ParsePriceSymbol(q.Get("price")); ok {
		criteria.Price = domain.ExactTier(tier)
	}
	return criteria, nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rest, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: newStoreCard(*rest, 0, h.favoriteSet(r))})
}

func (h *Handler) getStoreQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	png, err := h.Catalog.QRCode(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Data: h.Catalog.List()})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.Catalog.Menu(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]menuItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newMenuItemView(item))
	}
	writeJSON(w, http.StatusOK, envelope{Data: views})
}

func (h *Handler) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := h.Catalog.Reload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.SetCatalogSize(n)
	writeJSON(w, http.StatusOK, envelope{Data: map[string]int{"restaurants": n}})
}

type favoriteRequest struct {
	RestaurantID int `json:"restaurant_id"`
}

func decodeFavorite(r *http.Request) (int, error) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, domain.NewValidationError("body", err.Error())
	}
	if req.RestaurantID <= 0 {
		return 0, domain.NewValidationError("restaurant_id", "is required")
	}
	return req.RestaurantID, nil
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	restaurants, err := h.Favorites.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	cards := make([]storeCard, 0, len(restaurants))
	for _, rest := range restaurants {
		cards = append(cards, newStoreCard(rest, cardMenuPreview, map[int]bool{rest.ID: true}))
	}
	writeJSON(w, http.StatusOK, envelope{Data: cards})
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	restaurantID, err := decodeFavorite(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Favorites.Add(r.Context(), userID, restaurantID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "favorite added"})
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	restaurantID, err := decodeFavorite(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.Favorites.Remove(r.Context(), userID, restaurantID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "favorite removed"})
}

// parseDay reads a YYYY-MM-DD value in the diet service's location.
func (h *Handler) parseDay(raw string) (time.Time, error) {
	if i := strings.Index(raw, "T"); i >= 0 {
		raw = raw[:i]
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, h.Diet.Today().Location())
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}
	return day, nil
}

// listDiet returns the entries of ?date=, of today (the default) or, with
// today=false, the most recent entries across all days. The summary always
// covers a single day, named by its date field: ?date= when given, else today.
func (h *Handler) listDiet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	q := r.URL.Query()

	day := h.Diet.Today()
	var filter *time.Time
	switch {
	case q.Get("date") != "":
		parsed, err := h.parseDay(q.Get("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		day = parsed
		filter = &day
	case !strings.EqualFold(q.Get("today"), "false"):
		filter = &day
	}

	entries, err := h.Diet.ListEntries(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			writeJSON(w, http.StatusOK, envelope{Data: []domain.EnrichedEntry{}, Degraded: true})
			return
		}
		writeError(w, err)
		return
	}
	summary, err := h.Diet.DailySummary(r.Context(), userID, day)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to build day summary")
	}

	body := envelope{Data: entries}
	if summary != nil {
		body.Summary = summary
	}
	writeJSON(w, http.StatusOK, body)
}

type addDietRequest struct {
	ItemID      int        `json:"item_id"`
	PortionSize *float64   `json:"portion_size"`
	Date        string     `json:"date"`
	Meal        string     `json:"meal"`
	Timestamp   *time.Time `json:"timestamp"`
}

func (h *Handler) addDiet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	var req addDietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", err.Error()))
		return
	}

	id, err := h.Diet.AddEntry(r.Context(), service.AddEntryRequest{
		UserID:      userID,
		ItemID:      req.ItemID,
		PortionSize: req.PortionSize,
		Timestamp:   req.Timestamp,
		Date:        req.Date,
		Meal:        req.Meal,
	})
	metrics.RecordDietOp("add", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Message: "diet entry added", Data: map[string]int{"log_id": id}})
}

type updatePortionRequest struct {
	PortionSize float64 `json:"portion_size"`
}

func (h *Handler) updateDiet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req updatePortionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", err.Error()))
		return
	}

	updated, err := h.Diet.UpdatePortionSize(r.Context(), id, userID, req.PortionSize)
	metrics.RecordDietOp("update", err)
	if err != nil {
		writeError(w, err)
		return
	}
	if !updated {
		writeJSON(w, http.StatusNotFound, envelope{Error: "diet entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "portion updated"})
}

func (h *Handler) deleteDiet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.Diet.DeleteEntry(r.Context(), id, userID)
	metrics.RecordDietOp("delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, envelope{Error: "diet entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "diet entry deleted"})
}

func (h *Handler) dietSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	day := h.Diet.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := h.parseDay(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		day = parsed
	}
	summary, err := h.Diet.DailySummary(r.Context(), userID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: summary})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", err.Error()))
		return
	}
	user, err := h.Users.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Data: user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", err.Error()))
		return
	}
	token, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: map[string]string{"token": token}})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	user, err := h.Users.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: user})
}
