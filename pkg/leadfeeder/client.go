package leadfeeder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-intel/internal/resilience"
)

// Default base URL for the Leadfeeder API.
const defaultBaseURL = "https://api.leadfeeder.com"

const (
	// PageSize is the fixed page size requested from the API.
	PageSize = 100
	// MaxLeads caps pagination at Leadfeeder's documented account limit.
	// The ceiling is checked after each page merge, never mid-page.
	MaxLeads = 10000
)

// Client defines the Leadfeeder API operations.
type Client interface {
	FetchLeads(ctx context.Context, accountID, startDate, endDate string) (*Response, error)
	FetchAllLeads(ctx context.Context, accountID, startDate, endDate string) ([]Lead, error)
}

// Lead is one JSON:API lead record.
type Lead struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Attributes Attributes `json:"attributes"`
}

// Attributes holds the lead's visitor and firmographic fields.
type Attributes struct {
	Name           string     `json:"name"`
	Industry       string     `json:"industry,omitempty"`
	Industries     []Industry `json:"industries,omitempty"`
	FirstVisitDate string     `json:"first_visit_date"`
	LastVisitDate  string     `json:"last_visit_date"`
	Status         string     `json:"status,omitempty"`
	WebsiteURL     string     `json:"website_url,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	LinkedinURL    string     `json:"linkedin_url,omitempty"`
	TwitterHandle  string     `json:"twitter_handle,omitempty"`
	FacebookURL    string     `json:"facebook_url,omitempty"`
	EmployeeCount  int        `json:"employee_count,omitempty"`
	LogoURL        string     `json:"logo_url,omitempty"`
	BusinessID     string     `json:"business_id,omitempty"`
	Revenue        string     `json:"revenue,omitempty"`
	Quality        int        `json:"quality"` // 0-10 engagement heuristic
	Visits         int        `json:"visits"`
}

// Industry is a named industry label.
type Industry struct {
	Name string `json:"name"`
}

// Links carries JSON:API pagination pointers.
type Links struct {
	Self string `json:"self,omitempty"`
	Next string `json:"next,omitempty"`
	Last string `json:"last,omitempty"`
}

// Response is one page of leads.
type Response struct {
	Data  []Lead `json:"data"`
	Links Links  `json:"links"`
}

// APIError is returned when Leadfeeder responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leadfeeder: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the page request rate (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry overrides the per-page retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a new Leadfeeder client.
func NewClient(apiKey string, opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.ShouldRetry = transient
	retry.OnRetry = resilience.RetryLogger("leadfeeder", "get_page")

	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		retry:   retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transient reports whether a page fetch is worth retrying. Rate limiting
// and upstream 5xx responses are; auth and client errors are not.
func transient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}

// FetchLeads requests a single page of leads for the date range.
func (c *httpClient) FetchLeads(ctx context.Context, accountID, startDate, endDate string) (*Response, error) {
	resp, err := c.getPage(ctx, c.firstPageURL(accountID, startDate, endDate))
	if err != nil {
		return nil, eris.Wrap(err, "leadfeeder: fetch leads")
	}
	return resp, nil
}

// FetchAllLeads follows the server-supplied next link until it is absent or
// the accumulated record count reaches MaxLeads. Pages are requested
// sequentially; the next pointer is only known after the prior page
// resolves. Any non-success page aborts the whole fetch; no partial result
// is returned.
func (c *httpClient) FetchAllLeads(ctx context.Context, accountID, startDate, endDate string) ([]Lead, error) {
	var all []Lead
	next := c.firstPageURL(accountID, startDate, endDate)

	for next != "" {
		page, err := c.getPage(ctx, next)
		if err != nil {
			return nil, eris.Wrap(err, "leadfeeder: fetch all leads")
		}
		all = append(all, page.Data...)

		if len(all) >= MaxLeads {
			zap.L().Warn("leadfeeder: lead ceiling reached, stopping pagination",
				zap.Int("accumulated", len(all)),
			)
			break
		}
		next = page.Links.Next
	}

	return all, nil
}

func (c *httpClient) firstPageURL(accountID, startDate, endDate string) string {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	q.Set("page[size]", fmt.Sprintf("%d", PageSize))
	return fmt.Sprintf("%s/accounts/%s/leads?%s", c.baseURL, accountID, q.Encode())
}

// getPage fetches one page by absolute URL with the client's retry policy.
// The next link returned by the server is already absolute, so pagination
// reuses this directly.
func (c *httpClient) getPage(ctx context.Context, pageURL string) (*Response, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Response, error) {
		return c.doPage(ctx, pageURL)
	})
}

func (c *httpClient) doPage(ctx context.Context, pageURL string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Token token="+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	var page Response
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}

	return &page, nil
}

// GetDateRange returns the trailing N-day window as calendar dates with no
// time component (YYYY-MM-DD). days defaults to 7 when non-positive.
func GetDateRange(days int) (startDate, endDate string) {
	if days <= 0 {
		days = 7
	}
	now := time.Now().UTC()
	return now.AddDate(0, 0, -days).Format("2006-01-02"), now.Format("2006-01-02")
}
