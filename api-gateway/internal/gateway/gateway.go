package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ HTTPClient = (*http.Client)(nil)

type Config struct {
	DietSvcURL      string
	AnalyticsSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
}

func NewGateway(config Config, client HTTPClient) *Gateway {
	return &Gateway{
		config: config,
		client: client,
	}
}

// legacy paths kept for older clients
var aliases = map[string]string{
	"/api/cafes":  "/api/stores",
	"/api/cafes/": "/api/stores",
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	entry := log.WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"target": targetURL,
	})
	entry.Debug("Proxying request")

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		entry.WithError(err).Error("Failed to create upstream request")
		http.Error(w, "bad gateway request", http.StatusInternalServerError)
		return
	}
	req.Header = r.Header.Clone()
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		req.Header.Set("X-Forwarded-For", fwd+", "+r.RemoteAddr)
	} else {
		req.Header.Set("X-Forwarded-For", r.RemoteAddr)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		entry.WithError(err).Error("Upstream unreachable")
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		entry.WithError(err).Warn("Failed to copy upstream response")
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if target, ok := aliases[path]; ok {
		log.Debugf("Rewriting %s to %s", path, target)
		r.URL.Path = target
		g.ProxyRequest(w, r, g.config.DietSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/analytics/") {
		g.ProxyRequest(w, r, g.config.AnalyticsSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/") {
		g.ProxyRequest(w, r, g.config.DietSvcURL)
		return
	}

	log.WithField("path", path).Debug("Unmatched route")
	http.Error(w, "not found", http.StatusNotFound)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
