package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/headerbuilder"
	"github.com/yourusername/raceintel/internal/ratelimit"
)

// DefaultHealth holds the engine-specific starting health scores.
var DefaultHealth = map[string]float64{
	"plain":               0.5,
	"browser_impersonate": 0.8,
	"browser":             0.7,
	"stealth_browser":     0.9,
}

// httpDo is the shared retryablehttp-backed transport every non-browser
// engine wraps, grounded on the teacher's RateLimitedHTTPClient.
func httpDo(ctx context.Context, client *retryablehttp.Client, limiter *ratelimit.Limiter, name, rawURL string, opts FetchOptions, headers http.Header) (UnifiedResponse, error) {
	if limiter != nil {
		if err := limiter.Acquire(ctx); err != nil {
			return UnifiedResponse{}, apperrors.New(name, apperrors.KindTimeout, "rate limiter wait cancelled", err)
		}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var rawBody interface{}
	if opts.Body != "" {
		rawBody = opts.Body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, rawBody)
	if err != nil {
		return UnifiedResponse{}, apperrors.New(name, apperrors.KindUnknown, "building request", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return UnifiedResponse{}, apperrors.New(name, apperrors.KindNetwork, "request failed", err).WithURL(rawURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UnifiedResponse{}, apperrors.New(name, apperrors.KindNetwork, "reading body", err).WithURL(rawURL)
	}

	if resp.StatusCode >= 400 {
		kind := apperrors.ClassifyHTTPStatus(resp.StatusCode)
		return UnifiedResponse{Status: resp.StatusCode, Text: string(body), URL: rawURL},
			apperrors.New(name, kind, "non-2xx response", nil).WithURL(rawURL).WithStatus(resp.StatusCode)
	}

	return UnifiedResponse{
		Text:    string(body),
		Status:  resp.StatusCode,
		URL:     rawURL,
		Headers: resp.Header,
	}, nil
}

func newRetryClient(timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.HTTPClient.Timeout = timeout
	c.RetryMax = 3
	c.RetryWaitMin = 1 * time.Second
	c.RetryWaitMax = 10 * time.Second
	c.Logger = nil
	c.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case 429, 500, 502, 503, 504:
			return true, nil
		default:
			return false, nil
		}
	}
	return c
}

// PlainEngine issues requests with a minimal header set and no
// browser-specific fingerprinting.
type PlainEngine struct {
	client  *retryablehttp.Client
	limiter *ratelimit.Limiter
}

// NewPlainEngine returns a PlainEngine rate-limited at requestsPerSecond.
func NewPlainEngine(requestsPerSecond float64) *PlainEngine {
	return &PlainEngine{
		client:  newRetryClient(0),
		limiter: ratelimit.New("plain", requestsPerSecond),
	}
}

func (e *PlainEngine) Name() string { return "plain" }

func (e *PlainEngine) Do(ctx context.Context, rawURL string, opts FetchOptions) (UnifiedResponse, error) {
	return httpDo(ctx, e.client, e.limiter, e.Name(), rawURL, opts, headerbuilder.Plain())
}

// ImpersonatingEngine issues requests with a browser-shaped header set
// built by headerbuilder, without driving an actual browser.
type ImpersonatingEngine struct {
	client  *retryablehttp.Client
	limiter *ratelimit.Limiter
	headers func() http.Header
}

// NewImpersonatingEngine returns an ImpersonatingEngine using the given
// header profile (e.g. headerbuilder.Chrome).
func NewImpersonatingEngine(requestsPerSecond float64, headers func() http.Header) *ImpersonatingEngine {
	if headers == nil {
		headers = headerbuilder.Chrome
	}
	return &ImpersonatingEngine{
		client:  newRetryClient(0),
		limiter: ratelimit.New("browser_impersonate", requestsPerSecond),
		headers: headers,
	}
}

func (e *ImpersonatingEngine) Name() string { return "browser_impersonate" }

func (e *ImpersonatingEngine) Do(ctx context.Context, rawURL string, opts FetchOptions) (UnifiedResponse, error) {
	return httpDo(ctx, e.client, e.limiter, e.Name(), rawURL, opts, e.headers())
}

// BrowserDriver is the pluggable interface a real browser-automation binary
// implements. This repo never ships one; browser engines degrade to
// NullBrowserDriver, which always reports itself absent so the Fetcher
// excludes them from the ordered engine list per the "engine absent at
// build time" edge case.
type BrowserDriver interface {
	Navigate(ctx context.Context, rawURL string, opts FetchOptions) (UnifiedResponse, error)
	Available() bool
}

// NullBrowserDriver is the default BrowserDriver: always unavailable.
type NullBrowserDriver struct{}

func (NullBrowserDriver) Navigate(_ context.Context, rawURL string, _ FetchOptions) (UnifiedResponse, error) {
	return UnifiedResponse{}, apperrors.New("browser", apperrors.KindConfiguration, "no browser driver configured", nil).WithURL(rawURL)
}

func (NullBrowserDriver) Available() bool { return false }

// BrowserEngine drives a full browser session via a BrowserDriver.
type BrowserEngine struct {
	name   string
	driver BrowserDriver
}

// NewBrowserEngine wires a named browser-backed engine ("browser" or
// "stealth_browser") to a driver implementation.
func NewBrowserEngine(name string, driver BrowserDriver) *BrowserEngine {
	if driver == nil {
		driver = NullBrowserDriver{}
	}
	return &BrowserEngine{name: name, driver: driver}
}

func (e *BrowserEngine) Name() string { return e.name }

func (e *BrowserEngine) Do(ctx context.Context, rawURL string, opts FetchOptions) (UnifiedResponse, error) {
	if !e.driver.Available() {
		return UnifiedResponse{}, apperrors.New(e.name, apperrors.KindConfiguration, "engine unavailable", nil)
	}
	return e.driver.Navigate(ctx, rawURL, opts)
}

// AvailableEngines builds the standard four-engine set, excluding any whose
// backing driver reports itself unavailable (browser engines absent at
// build time), and registers each at its default health score.
func AvailableEngines(requestsPerSecond float64, browserDriver, stealthDriver BrowserDriver) *Fetcher {
	f := New()
	f.Register(NewPlainEngine(requestsPerSecond), DefaultHealth["plain"])
	f.Register(NewImpersonatingEngine(requestsPerSecond, headerbuilder.Chrome), DefaultHealth["browser_impersonate"])

	browser := NewBrowserEngine("browser", browserDriver)
	if browser.driver.Available() {
		f.Register(browser, DefaultHealth["browser"])
	}
	stealth := NewBrowserEngine("stealth_browser", stealthDriver)
	if stealth.driver.Available() {
		f.Register(stealth, DefaultHealth["stealth_browser"])
	}
	return f
}
