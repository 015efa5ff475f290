package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	LedgerSvcURL    string
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

var (
	ledgerPrefixes = []string{"/api/menu", "/api/customers", "/api/orders", "/api/payments", "/api/accounts"}
	ledgerLegacy   = map[string]bool{"/menu": true, "/customers": true, "/place-order": true, "/process-payment": true}
	reportLegacy   = map[string]bool{"/daily-revenue": true, "/top-menu-items": true, "/top-customers": true}
)

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := log.WithFields(log.Fields{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"upstream":   targetURL,
	})

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		logger.WithError(err).Error("failed to build upstream request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		logger.WithError(err).Error("upstream unreachable")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.WithError(err).Warn("failed to copy upstream response")
	}
	logger.WithField("status", resp.StatusCode).Debug("proxied")
}

// Upstream picks the service that owns path, or "" when none does.
func (g *Gateway) Upstream(path string) string {
	if strings.HasPrefix(path, "/api/reports/") || reportLegacy[path] {
		return g.config.AnalyticsSvcURL
	}
	if ledgerLegacy[path] {
		return g.config.LedgerSvcURL
	}
	for _, prefix := range ledgerPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return g.config.LedgerSvcURL
		}
	}
	return ""
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target := g.Upstream(r.URL.Path)
	if target == "" {
		log.WithField("path", r.URL.Path).Info("unmatched route")
		http.Error(w, "route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
