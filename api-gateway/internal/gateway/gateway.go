package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL     string
	AnalyticsSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *zap.Logger
}

func NewGateway(config Config, client HTTPClient, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Upstream picks the service that owns path. Admin reporting lives in
// analytics-svc; the rest of the API belongs to order-svc.
func (g *Gateway) Upstream(path string) (string, bool) {
	switch {
	case path == "/api/admin" || strings.HasPrefix(path, "/api/admin/"):
		return g.config.AnalyticsSvcURL, true
	case strings.HasPrefix(path, "/api/"):
		return g.config.OrderSvcURL, true
	}
	return "", false
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := strings.TrimRight(targetURL, "/") + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.log.Error("proxy_request_build_failed", zap.String("url", url), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.Header.Set("X-Forwarded-For", host)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("upstream_unreachable", zap.String("upstream", targetURL), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Warn("proxy_copy_failed", zap.String("path", r.URL.Path), zap.Error(err))
	}

	g.log.Debug("proxied",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("upstream", targetURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := g.Upstream(r.URL.Path)
	if !ok {
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
