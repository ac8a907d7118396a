// Package monitoring surfaces engagement metrics for the dashboard header,
// derived from the most recent analysis run.
package monitoring

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/internal/model"
)

const (
	// avgSessionSeconds estimates on-site time per recorded visit.
	avgSessionSeconds = 140

	// lookupTimeout bounds one metric collection.
	lookupTimeout = 3 * time.Second
)

// TopCompany is the most engaged visitor company, by estimated total time
// on site.
type TopCompany struct {
	CompanyID        string `json:"company_id"`
	Name             string `json:"name"`
	Domain           string `json:"domain"`
	TotalTimeSeconds int    `json:"total_time_seconds"`
	VisitsCount      int    `json:"visits_count"`
}

// sampleTopCompany is served before the first analysis run so the dashboard
// header never renders empty.
var sampleTopCompany = TopCompany{
	CompanyID:        "sample-1",
	Name:             "Electronic Contracting (ECC)",
	Domain:           "ecc.example",
	TotalTimeSeconds: 1680,
	VisitsCount:      12,
}

// Collector derives header metrics from the cached analysis result.
type Collector struct {
	store *analysis.ResultStore
}

func NewCollector(store *analysis.ResultStore) *Collector {
	return &Collector{store: store}
}

// TopCompany returns the lead with the highest estimated total time on site
// from the latest analysis, or sample data when no analysis has run yet.
func (c *Collector) TopCompany(ctx context.Context) (*TopCompany, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "monitoring: top company lookup")
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	type lookup struct {
		top *TopCompany
	}
	done := make(chan lookup, 1)
	go func() {
		done <- lookup{top: c.lookup()}
	}()

	select {
	case res := <-done:
		return res.top, nil
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "monitoring: top company lookup")
	}
}

func (c *Collector) lookup() *TopCompany {
	result, _ := c.store.Last()
	if result == nil || len(result.Leads) == 0 {
		zap.L().Debug("monitoring: no analysis cached, serving sample metric")
		sample := sampleTopCompany
		return &sample
	}

	top := result.Leads[0]
	for _, lead := range result.Leads[1:] {
		if lead.Visits > top.Visits {
			top = lead
		}
	}

	return &TopCompany{
		CompanyID:        top.ID,
		Name:             top.Name,
		Domain:           domainOf(top),
		TotalTimeSeconds: top.Visits * avgSessionSeconds,
		VisitsCount:      top.Visits,
	}
}

// domainOf strips the scheme and path from the lead's website URL, falling
// back to the company name when no URL is recorded.
func domainOf(lead model.ScoredLead) string {
	site := lead.Website
	if site == "" {
		return strings.ToLower(strings.ReplaceAll(lead.Name, " ", ""))
	}
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	site = strings.TrimPrefix(site, "www.")
	if i := strings.IndexByte(site, '/'); i >= 0 {
		site = site[:i]
	}
	return site
}
