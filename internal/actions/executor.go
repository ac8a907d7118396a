// Package actions executes structured commands extracted from concierge
// transcripts against the rest of the application.
package actions

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/internal/concierge"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/project"
)

// Executor dispatches concierge actions to the project store and the
// analysis cache. It implements concierge.ActionExecutor.
type Executor struct {
	projects *project.Store
	analysis *analysis.Service
}

func NewExecutor(projects *project.Store, svc *analysis.Service) *Executor {
	return &Executor{projects: projects, analysis: svc}
}

// Execute performs the action and returns a JSON-shaped result map.
func (e *Executor) Execute(_ context.Context, action concierge.Action) (map[string]any, error) {
	zap.L().Info("actions: executing", zap.String("type", action.Type))

	switch action.Type {
	case "create_project":
		return e.createProject(action)
	case "show_hot_leads":
		return e.showHotLeads(), nil
	case "generate_report":
		return e.generateReport(), nil
	default:
		return nil, eris.Errorf("actions: unsupported action type %q", action.Type)
	}
}

func (e *Executor) createProject(action concierge.Action) (map[string]any, error) {
	p, err := e.projects.Create(action.Field("name"), action.Field("leadId"))
	if err != nil {
		return nil, eris.Wrap(err, "actions: create project")
	}
	return map[string]any{
		"projectId": p.ID,
		"name":      p.Name,
		"createdAt": p.CreatedAt,
	}, nil
}

func (e *Executor) showHotLeads() map[string]any {
	report := e.analysis.Last()

	hot := make([]model.ScoredLead, 0)
	for _, lead := range report.Leads {
		if lead.Category == model.CategoryHot {
			hot = append(hot, lead)
		}
	}
	return map[string]any{
		"leads": hot,
		"count": len(hot),
	}
}

func (e *Executor) generateReport() map[string]any {
	report := e.analysis.Last()

	out := map[string]any{
		"summary": report.Summary,
		"metrics": report.Metrics,
	}
	if report.AnalyzedAt != nil {
		out["analyzedAt"] = report.AnalyzedAt
	}
	return out
}
