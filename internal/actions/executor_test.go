package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/internal/concierge"
	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/project"
	"github.com/sells-group/lead-intel/pkg/leadfeeder"
)

type fakeSource struct {
	leads []leadfeeder.Lead
}

func (f *fakeSource) FetchLeads(context.Context, string, string, string) (*leadfeeder.Response, error) {
	return &leadfeeder.Response{Data: f.leads}, nil
}

func (f *fakeSource) FetchAllLeads(context.Context, string, string, string) ([]leadfeeder.Lead, error) {
	return f.leads, nil
}

func newExecutor(t *testing.T, leads []leadfeeder.Lead, run bool) (*Executor, *project.Store) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Leadfeeder.AccountID = "acct-1"
	cfg.Leadfeeder.Key = "lf-key"
	cfg.Anthropic.Key = "an-key"

	svc := analysis.NewService(cfg, &fakeSource{leads: leads}, analysis.NewResultStore())
	if run {
		_, err := svc.Run(context.Background(), 7)
		require.NoError(t, err)
	}

	projects := project.NewStore()
	return NewExecutor(projects, svc), projects
}

func TestExecute_CreateProject(t *testing.T) {
	e, projects := newExecutor(t, nil, false)

	result, err := e.Execute(context.Background(), concierge.Action{
		Type:   "create_project",
		Fields: map[string]any{"type": "create_project", "name": "ECC Expansion", "leadId": "lead-1"},
	})
	require.NoError(t, err)

	id, _ := result["projectId"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "ECC Expansion", result["name"])

	p, ok := projects.Get(id)
	require.True(t, ok)
	assert.Equal(t, "lead-1", p.LeadID)
}

func TestExecute_CreateProject_MissingName(t *testing.T) {
	e, projects := newExecutor(t, nil, false)

	_, err := e.Execute(context.Background(), concierge.Action{Type: "create_project"})
	assert.ErrorIs(t, err, project.ErrNameRequired)
	assert.Empty(t, projects.List())
}

func TestExecute_ShowHotLeads(t *testing.T) {
	leads := []leadfeeder.Lead{
		{ID: "1", Attributes: leadfeeder.Attributes{Name: "Globex", Visits: 12, Quality: 10}},
		{ID: "2", Attributes: leadfeeder.Attributes{Name: "Initech", Visits: 1, Quality: 2}},
	}
	e, _ := newExecutor(t, leads, true)

	result, err := e.Execute(context.Background(), concierge.Action{Type: "show_hot_leads"})
	require.NoError(t, err)

	assert.Equal(t, 1, result["count"])
	hot, ok := result["leads"].([]model.ScoredLead)
	require.True(t, ok)
	require.Len(t, hot, 1)
	assert.Equal(t, "Globex", hot[0].Name)
	assert.Equal(t, model.CategoryHot, hot[0].Category)
}

func TestExecute_ShowHotLeads_NoAnalysis(t *testing.T) {
	e, _ := newExecutor(t, nil, false)

	result, err := e.Execute(context.Background(), concierge.Action{Type: "show_hot_leads"})
	require.NoError(t, err)
	assert.Equal(t, 0, result["count"])
}

func TestExecute_GenerateReport(t *testing.T) {
	leads := []leadfeeder.Lead{
		{ID: "1", Attributes: leadfeeder.Attributes{Name: "Globex", Visits: 12, Quality: 10}},
	}
	e, _ := newExecutor(t, leads, true)

	result, err := e.Execute(context.Background(), concierge.Action{Type: "generate_report"})
	require.NoError(t, err)

	assert.Contains(t, result["summary"], "Analyzed 1 leads")
	metrics, ok := result["metrics"].(analysis.Metrics)
	require.True(t, ok)
	assert.Equal(t, 1, metrics.TotalLeads)
	assert.Equal(t, 1, metrics.HotLeads)
	assert.NotNil(t, result["analyzedAt"])
}

func TestExecute_GenerateReport_NoAnalysis(t *testing.T) {
	e, _ := newExecutor(t, nil, false)

	result, err := e.Execute(context.Background(), concierge.Action{Type: "generate_report"})
	require.NoError(t, err)
	assert.NotContains(t, result, "analyzedAt")
}

func TestExecute_UnsupportedType(t *testing.T) {
	e, _ := newExecutor(t, nil, false)

	_, err := e.Execute(context.Background(), concierge.Action{Type: "drop_tables"})
	assert.Error(t, err)
}
