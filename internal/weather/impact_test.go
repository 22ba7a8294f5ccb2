package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/season"
)

// flatForecast builds days identical samples with the given highs and rain.
func flatForecast(days int, high, rain float64, cond Condition) []Sample {
	start := time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)
	out := make([]Sample, days)
	for i := range out {
		out[i] = Sample{
			Date:       start.AddDate(0, 0, i),
			Season:     season.Summer,
			TempC:      high - 3,
			TempHighC:  high,
			TempLowC:   high - 6,
			RainfallMM: rain,
			Condition:  cond,
		}
	}
	return out
}

func TestAssessImpactEmpty(t *testing.T) {
	impact := AssessImpact(nil, season.Summer)
	assert.Equal(t, ImpactUnknown, impact.Temperature)
	assert.Equal(t, ImpactUnknown, impact.Rainfall)
	assert.Equal(t, ImpactUnknown, impact.Overall)
	assert.Empty(t, impact.Recommendations)
}

func TestAssessImpactClassification(t *testing.T) {
	t.Run("favorable window is positive overall", func(t *testing.T) {
		// mean high 24, total rain 7 days x 5 = 35.
		impact := AssessImpact(flatForecast(7, 24, 5, ConditionClear), season.Summer)
		assert.Equal(t, ImpactPositive, impact.Temperature)
		assert.Equal(t, ImpactPositive, impact.Rainfall)
		assert.Equal(t, ImpactPositive, impact.Overall)
	})

	t.Run("heat drives overall negative", func(t *testing.T) {
		impact := AssessImpact(flatForecast(7, 33, 5, ConditionHot), season.Summer)
		assert.Equal(t, ImpactNegative, impact.Temperature)
		assert.Equal(t, ImpactNegative, impact.Overall)
		require.NotEmpty(t, impact.Recommendations)
		assert.Equal(t, "High temperatures forecasted", impact.Recommendations[0].Focus)
	})

	t.Run("dry spell drives rainfall negative", func(t *testing.T) {
		// total rain 7 x 1 = 7 < 10.
		impact := AssessImpact(flatForecast(7, 24, 1, ConditionClear), season.Summer)
		assert.Equal(t, ImpactNegative, impact.Rainfall)
		assert.Equal(t, ImpactNegative, impact.Overall)
	})

	t.Run("mixed axes stay neutral overall", func(t *testing.T) {
		// temp positive, rain 7 x 10 = 70: between the positive band and
		// the negative threshold.
		impact := AssessImpact(flatForecast(7, 24, 10, ConditionLight), season.Summer)
		assert.Equal(t, ImpactPositive, impact.Temperature)
		assert.Equal(t, ImpactNeutral, impact.Rainfall)
		assert.Equal(t, ImpactNeutral, impact.Overall)
	})
}

func TestAssessImpactExtremeDays(t *testing.T) {
	forecast := flatForecast(5, 24, 5, ConditionClear)
	forecast[1].Condition = ConditionDrought
	forecast[3].Condition = ConditionFlood

	impact := AssessImpact(forecast, season.Fall)

	var droughts, floods int
	for _, rec := range impact.Recommendations {
		switch rec.SustainabilityImpact {
		case 2.5:
			droughts++
			assert.Contains(t, rec.Focus, forecast[1].Date.Format("2006-01-02"))
		case 2.0:
			floods++
		}
	}
	assert.Equal(t, 1, droughts)
	assert.Equal(t, 1, floods)

	// Season guidance always comes last.
	last := impact.Recommendations[len(impact.Recommendations)-1]
	assert.Equal(t, agri.CategorySeasonalPlanning, last.Category)
	assert.Equal(t, "Fall harvest timing", last.Focus)
}

func TestRecommendationsShortTermCap(t *testing.T) {
	// Seven straight flood days: only the first three produce short-term
	// items, with confidence fading by forecast distance.
	forecast := flatForecast(14, 24, 5, ConditionFlood)

	items := Recommendations(forecast, season.Spring)

	var shortTerm []agri.RecommendationItem
	for _, it := range items {
		if it.Category == agri.CategoryWeatherManagement && it.SustainabilityImpact == 1.8 && it.Confidence < 0.9 {
			shortTerm = append(shortTerm, it)
		}
	}
	require.Len(t, shortTerm, 3)
	assert.Equal(t, "Heavy Rain Management: Day 1", shortTerm[0].Focus)
	assert.InDelta(t, 0.85, shortTerm[0].Confidence, 1e-9)
	assert.InDelta(t, 0.80, shortTerm[1].Confidence, 1e-9)
	assert.InDelta(t, 0.75, shortTerm[2].Confidence, 1e-9)
}

func TestRecommendationsSeasonalAndWater(t *testing.T) {
	t.Run("dry fortnight adds drought mitigation", func(t *testing.T) {
		items := Recommendations(flatForecast(14, 24, 1, ConditionClear), season.Winter)

		var focuses []string
		for _, it := range items {
			focuses = append(focuses, it.Focus)
		}
		assert.Contains(t, focuses, "Winter Planning")
		assert.Contains(t, focuses, "Spring preparation")
		assert.Contains(t, focuses, "Drought Mitigation")
		assert.Contains(t, focuses, "Water Conservation")
		assert.NotContains(t, focuses, "Excess Water Management")
	})

	t.Run("wet fortnight adds excess water management", func(t *testing.T) {
		items := Recommendations(flatForecast(14, 24, 9, ConditionLight), season.Summer)

		var focuses []string
		for _, it := range items {
			focuses = append(focuses, it.Focus)
		}
		assert.Contains(t, focuses, "Excess Water Management")
		assert.NotContains(t, focuses, "Drought Mitigation")
	})

	t.Run("conservation item always present and last", func(t *testing.T) {
		items := Recommendations(flatForecast(14, 24, 5, ConditionClear), season.Summer)
		require.NotEmpty(t, items)
		assert.Equal(t, "Water Conservation", items[len(items)-1].Focus)
	})
}
