package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/internal/analyzer"
	"github.com/sells-group/lead-intel/internal/model"
)

func TestTopCompany_SampleBeforeFirstAnalysis(t *testing.T) {
	c := NewCollector(analysis.NewResultStore())

	top, err := c.TopCompany(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sample-1", top.CompanyID)
	assert.Equal(t, "Electronic Contracting (ECC)", top.Name)
	assert.Equal(t, "ecc.example", top.Domain)
	assert.Equal(t, 1680, top.TotalTimeSeconds)
	assert.Equal(t, 12, top.VisitsCount)
}

func TestTopCompany_PicksMostVisitedLead(t *testing.T) {
	store := analysis.NewResultStore()
	store.Put(analyzer.Analyze([]model.RawLead{
		{ID: "a", Name: "Initech", Visits: 3, Quality: 5},
		{ID: "b", Name: "Globex", Visits: 9, Quality: 7, Website: "https://www.globex.com/about"},
		{ID: "c", Name: "Hooli", Visits: 4, Quality: 9},
	}))
	c := NewCollector(store)

	top, err := c.TopCompany(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "b", top.CompanyID)
	assert.Equal(t, "Globex", top.Name)
	assert.Equal(t, "globex.com", top.Domain)
	assert.Equal(t, 9*avgSessionSeconds, top.TotalTimeSeconds)
	assert.Equal(t, 9, top.VisitsCount)
}

func TestTopCompany_EmptyAnalysisServesSample(t *testing.T) {
	store := analysis.NewResultStore()
	store.Put(analyzer.Analyze(nil))
	c := NewCollector(store)

	top, err := c.TopCompany(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sample-1", top.CompanyID)
}

func TestTopCompany_CanceledContext(t *testing.T) {
	c := NewCollector(analysis.NewResultStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.TopCompany(ctx)
	assert.Error(t, err)
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		name string
		lead model.ScoredLead
		want string
	}{
		{"full url", model.ScoredLead{RawLead: model.RawLead{Website: "https://www.acme.io/products"}}, "acme.io"},
		{"bare host", model.ScoredLead{RawLead: model.RawLead{Website: "acme.io"}}, "acme.io"},
		{"http no www", model.ScoredLead{RawLead: model.RawLead{Website: "http://acme.io"}}, "acme.io"},
		{"no website", model.ScoredLead{RawLead: model.RawLead{Name: "Acme Corp"}}, "acmecorp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainOf(tt.lead))
		})
	}
}
