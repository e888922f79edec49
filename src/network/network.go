package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"market-fetcher/src/helpers"
	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Backoff bounds for transient failures (connect errors, 429, 5xx).
const (
	baseBackoff = 1 * time.Second
	maxBackoff  = 16 * time.Second
)

// -----------------------------------------------------------------------------

// Manager performs GET requests with bounded exponential backoff, a minimum
// inter-request delay and a circuit breaker. Several fetchers scrape
// rate-limited endpoints, so the delay is a correctness mechanism, not an
// optimization.
type Manager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Client       *http.Client
	Logger       *logger.Logger
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
}

// -----------------------------------------------------------------------------

func NewManager(cfg *models.MConfig, log *logger.Logger) *Manager {
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}

	limit := rate.Inf
	if cfg.Network.MinRequestDelayMS > 0 {
		limit = rate.Every(time.Duration(cfg.Network.MinRequestDelayMS) * time.Millisecond)
	}

	nm := &Manager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent),
		Logger:       log,
		limiter:      rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "vendor-http",
			Interval: 60 * time.Second,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 8
			},
		}),
	}
	nm.Client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *Manager) createClient() *http.Client {
	transport := &http.Transport{}

	if nm.ProxyManager.HasProxies() {
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err == nil && proxyStr != "" {
			proxyURL, err := url.Parse(proxyStr)
			if err == nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

func (nm *Manager) rotateProxy() {
	if !nm.ProxyManager.HasProxies() {
		return
	}

	nm.ProxyManager.RotateProxy()
	nm.Client = nm.createClient()
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and proxy rotation.
func (nm *Manager) Get(urlStr string, params map[string]string) ([]byte, error) {
	return nm.GetWithHeaders(urlStr, params, nil)
}

// -----------------------------------------------------------------------------

// GetWithHeaders is Get with extra request headers (vendor session quirks
// like Accept overrides live in the fetchers, not here).
func (nm *Manager) GetWithHeaders(urlStr string, params map[string]string, headers map[string]string) ([]byte, error) {
	body, err := nm.breaker.Execute(func() (interface{}, error) {
		return nm.getWithRetry(urlStr, params, headers)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// -----------------------------------------------------------------------------

func (nm *Manager) getWithRetry(urlStr string, params map[string]string, headers map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()

	finalUrl := reqUrl.String()

	maxRetries := nm.Config.Network.MaxRetries
	backoff := baseBackoff
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			nm.rotateProxy()
		}

		// Minimum inter-request delay, shared across all fetchers.
		if err := nm.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}

		req, err := http.NewRequest("GET", finalUrl, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := nm.Client.Do(req)
		if err != nil {
			lastErr = err
			nm.Logger.Info("Request failed (attempt %d/%d): %v", i+1, maxRetries+1, err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status %d", resp.StatusCode)
			nm.Logger.Info("Transient status %d for %s, backing off", resp.StatusCode, reqUrl.Host)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %v", lastErr)
}
