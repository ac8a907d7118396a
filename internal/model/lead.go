package model

import (
	"time"

	"github.com/sells-group/lead-intel/pkg/leadfeeder"
)

// Category buckets a lead by its custom score.
type Category string

const (
	CategoryHot  Category = "HOT"
	CategoryWarm Category = "WARM"
	CategoryCool Category = "COOL"
)

// RawLead is one normalized visitor record from the lead source.
type RawLead struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry,omitempty"`
	Visits        int    `json:"visits"`
	Quality       int    `json:"quality"`
	FirstVisit    string `json:"firstVisit"`
	LastVisit     string `json:"lastVisit"`
	Website       string `json:"website,omitempty"`
	LinkedIn      string `json:"linkedin,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
	Revenue       string `json:"revenue,omitempty"`
}

// FromSource normalizes a wire-format lead. The first entry of the explicit
// industries list takes precedence over the flat industry field.
func FromSource(l leadfeeder.Lead) RawLead {
	industry := l.Attributes.Industry
	if len(l.Attributes.Industries) > 0 {
		industry = l.Attributes.Industries[0].Name
	}

	return RawLead{
		ID:            l.ID,
		Name:          l.Attributes.Name,
		Industry:      industry,
		Visits:        l.Attributes.Visits,
		Quality:       l.Attributes.Quality,
		FirstVisit:    l.Attributes.FirstVisitDate,
		LastVisit:     l.Attributes.LastVisitDate,
		Website:       l.Attributes.WebsiteURL,
		LinkedIn:      l.Attributes.LinkedinURL,
		EmployeeCount: l.Attributes.EmployeeCount,
		Revenue:       l.Attributes.Revenue,
	}
}

// ScoredLead is a RawLead plus derived scoring fields. Created once per
// analysis run and immutable thereafter.
type ScoredLead struct {
	RawLead
	CustomScore int      `json:"customScore"`
	Category    Category `json:"category"`
	Insights    string   `json:"insights"`
}

// AnalysisResult aggregates one scoring run. The category counts always sum
// to TotalLeads.
type AnalysisResult struct {
	Leads      []ScoredLead `json:"leads"`
	Summary    string       `json:"summary"`
	TotalLeads int          `json:"totalLeads"`
	HotLeads   int          `json:"hotLeads"`
	WarmLeads  int          `json:"warmLeads"`
	CoolLeads  int          `json:"coolLeads"`
	AvgScore   int          `json:"avgScore"`
	AnalyzedAt time.Time    `json:"analyzedAt"`
}
