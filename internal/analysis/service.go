// Package analysis orchestrates the lead ingestion pipeline: resolve the
// date window, fetch from the lead source, score, and cache the result.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/analyzer"
	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/leadfeeder"
)

// Metrics is the dashboard stat-card payload for one analysis run.
type Metrics struct {
	TotalLeads int `json:"totalLeads"`
	HotLeads   int `json:"hotLeads"`
	WarmLeads  int `json:"warmLeads"`
	CoolLeads  int `json:"coolLeads"`
	AgentRuns  int `json:"agentRuns"`
	AvgScore   int `json:"avgScore"`
}

// Report is the orchestrator's response contract to the UI layer. A nil
// AnalyzedAt marks the "no analysis yet" sentinel; a run over an empty lead
// set carries a timestamp and zeroed metrics.
type Report struct {
	Message    string             `json:"message,omitempty"`
	Metrics    Metrics            `json:"metrics"`
	Summary    string             `json:"summary,omitempty"`
	Leads      []model.ScoredLead `json:"leads"`
	AnalyzedAt *time.Time         `json:"analyzedAt,omitempty"`
}

// Service coordinates fetch and scoring and owns the latest-result cache.
// Concurrent Run calls are not serialized: the last write to the store
// wins, which is acceptable for a single dashboard cache.
type Service struct {
	cfg   *config.Config
	src   leadfeeder.Client
	store *ResultStore
}

// NewService creates the orchestrator.
func NewService(cfg *config.Config, src leadfeeder.Client, store *ResultStore) *Service {
	return &Service{cfg: cfg, src: src, store: store}
}

// Run executes one analysis over the trailing N-day window and replaces
// the cached result. Missing credentials fail fast before any network
// call; source errors propagate without a partial result and leave the
// cache and run counter untouched.
func (s *Service) Run(ctx context.Context, days int) (*Report, error) {
	if err := s.cfg.Validate("analysis"); err != nil {
		return nil, err
	}

	startDate, endDate := leadfeeder.GetDateRange(days)
	zap.L().Info("analysis: fetching leads",
		zap.String("account_id", s.cfg.Leadfeeder.AccountID),
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
	)

	leads, err := s.src.FetchAllLeads(ctx, s.cfg.Leadfeeder.AccountID, startDate, endDate)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: fetch leads")
	}

	raw := make([]model.RawLead, len(leads))
	for i, l := range leads {
		raw[i] = model.FromSource(l)
	}

	result := analyzer.Analyze(raw)
	runs := s.store.Put(result)

	zap.L().Info("analysis: complete",
		zap.Int("total_leads", result.TotalLeads),
		zap.Int("hot", result.HotLeads),
		zap.Int("warm", result.WarmLeads),
		zap.Int("cool", result.CoolLeads),
		zap.Int("avg_score", result.AvgScore),
		zap.Int("agent_runs", runs),
	)

	message := fmt.Sprintf("Analyzed %d leads successfully", result.TotalLeads)
	if result.TotalLeads == 0 {
		message = "No leads found in the specified date range"
	}
	return reportFrom(&result, runs, message), nil
}

// Last returns the most recent cached report, or the "no analysis yet"
// sentinel with zeroed metrics and no timestamp.
func (s *Service) Last() *Report {
	result, runs := s.store.Last()
	if result == nil {
		return &Report{
			Message: "No analysis available yet. Run an analysis to start.",
			Metrics: Metrics{AgentRuns: runs},
			Leads:   []model.ScoredLead{},
		}
	}
	return reportFrom(result, runs, "")
}

func reportFrom(result *model.AnalysisResult, runs int, message string) *Report {
	analyzedAt := result.AnalyzedAt
	return &Report{
		Message: message,
		Metrics: Metrics{
			TotalLeads: result.TotalLeads,
			HotLeads:   result.HotLeads,
			WarmLeads:  result.WarmLeads,
			CoolLeads:  result.CoolLeads,
			AgentRuns:  runs,
			AvgScore:   result.AvgScore,
		},
		Summary:    result.Summary,
		Leads:      result.Leads,
		AnalyzedAt: &analyzedAt,
	}
}
