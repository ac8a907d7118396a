package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		visits  int
		quality int
		want    int
	}{
		{visits: 0, quality: 0, want: 0},
		{visits: 1, quality: 0, want: 8},
		{visits: 7, quality: 0, want: 56},
		{visits: 8, quality: 0, want: 60},   // visit score caps at 60
		{visits: 100, quality: 0, want: 60}, // still capped
		{visits: 0, quality: 10, want: 40},
		{visits: 8, quality: 10, want: 100},
		{visits: 50, quality: 10, want: 100}, // overall cap at 100
		{visits: 5, quality: 5, want: 60},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("visits=%d quality=%d", tt.visits, tt.quality), func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.visits, tt.quality))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	// For all valid inputs the score stays in [0,100].
	for visits := 0; visits <= 30; visits++ {
		for quality := 0; quality <= 10; quality++ {
			score := Score(visits, quality)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestCategorize_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  model.Category
	}{
		{score: 100, want: model.CategoryHot},
		{score: 75, want: model.CategoryHot},
		{score: 74, want: model.CategoryWarm},
		{score: 50, want: model.CategoryWarm},
		{score: 49, want: model.CategoryCool},
		{score: 0, want: model.CategoryCool},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.score))
		})
	}
}

func TestInsight_Buckets(t *testing.T) {
	tests := []struct {
		visits int
		want   string
	}{
		{visits: 11, want: "High engagement: 11 visits"},
		{visits: 6, want: "Moderate interest: 6 visits"},
		{visits: 5, want: "Early research: 5 visits"},
		{visits: 0, want: "Early research: 0 visits"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Insight(tt.visits))
		})
	}
}

func TestAnalyze(t *testing.T) {
	leads := []model.RawLead{
		{ID: "a", Name: "Hot Co", Visits: 12, Quality: 9},  // 60+36=96 HOT
		{ID: "b", Name: "Warm Co", Visits: 4, Quality: 6},  // 32+24=56 WARM
		{ID: "c", Name: "Cool Co", Visits: 1, Quality: 2},  // 8+8=16 COOL
		{ID: "d", Name: "Edge Co", Visits: 8, Quality: 10}, // 100 HOT
	}

	result := Analyze(leads)

	require.Len(t, result.Leads, 4)
	assert.Equal(t, 4, result.TotalLeads)
	assert.Equal(t, 2, result.HotLeads)
	assert.Equal(t, 1, result.WarmLeads)
	assert.Equal(t, 1, result.CoolLeads)
	assert.Equal(t, result.TotalLeads, result.HotLeads+result.WarmLeads+result.CoolLeads)

	// (96+56+16+100)/4 = 67
	assert.Equal(t, 67, result.AvgScore)
	assert.Equal(t, "Analyzed 4 leads: 2 hot opportunities, 1 warm leads, 1 cool prospects.", result.Summary)
	assert.False(t, result.AnalyzedAt.IsZero())

	// Order follows input order.
	assert.Equal(t, "a", result.Leads[0].ID)
	assert.Equal(t, model.CategoryHot, result.Leads[0].Category)
	assert.Equal(t, "High engagement: 12 visits", result.Leads[0].Insights)
	assert.Equal(t, "d", result.Leads[3].ID)
	assert.Equal(t, 100, result.Leads[3].CustomScore)
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(nil)

	assert.Equal(t, 0, result.TotalLeads)
	assert.Equal(t, 0, result.HotLeads)
	assert.Equal(t, 0, result.WarmLeads)
	assert.Equal(t, 0, result.CoolLeads)
	assert.Equal(t, 0, result.AvgScore)
	assert.NotNil(t, result.Leads)
	assert.Empty(t, result.Leads)
	assert.Equal(t, "Analyzed 0 leads: 0 hot opportunities, 0 warm leads, 0 cool prospects.", result.Summary)
}

func TestAnalyze_CountInvariant(t *testing.T) {
	var leads []model.RawLead
	for v := 0; v <= 15; v++ {
		for q := 0; q <= 10; q += 2 {
			leads = append(leads, model.RawLead{ID: fmt.Sprintf("l-%d-%d", v, q), Visits: v, Quality: q})
		}
	}

	result := Analyze(leads)
	assert.Equal(t, result.TotalLeads, result.HotLeads+result.WarmLeads+result.CoolLeads)
	assert.GreaterOrEqual(t, result.AvgScore, 0)
	assert.LessOrEqual(t, result.AvgScore, 100)
}
