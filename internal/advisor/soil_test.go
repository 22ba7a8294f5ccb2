package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSoil(t *testing.T) {
	t.Run("optimal parcel triggers no recommendations", func(t *testing.T) {
		out := AnalyzeSoil(6.7, 28.5)
		assert.Equal(t, StatusOptimal, out.PHStatus)
		assert.Equal(t, StatusOptimal, out.MoistureStatus)
		assert.Empty(t, out.Recommendations)
	})

	t.Run("acidic soil", func(t *testing.T) {
		out := AnalyzeSoil(5.2, 30)
		assert.Equal(t, StatusAcidic, out.PHStatus)
		require.Len(t, out.Recommendations, 1)
		assert.Contains(t, out.Recommendations[0].Action, "lime")
		assert.Negative(t, out.Recommendations[0].EconomicImpact)
	})

	t.Run("alkaline soil", func(t *testing.T) {
		out := AnalyzeSoil(7.9, 30)
		assert.Equal(t, StatusAlkaline, out.PHStatus)
		require.Len(t, out.Recommendations, 1)
	})

	t.Run("dry and acidic stacks both items", func(t *testing.T) {
		out := AnalyzeSoil(5.0, 15)
		assert.Equal(t, StatusAcidic, out.PHStatus)
		assert.Equal(t, StatusDry, out.MoistureStatus)
		assert.Len(t, out.Recommendations, 2)
	})

	t.Run("boundaries are inclusive of the optimal band", func(t *testing.T) {
		out := AnalyzeSoil(5.5, 20)
		assert.Equal(t, StatusOptimal, out.PHStatus)
		assert.Equal(t, StatusOptimal, out.MoistureStatus)

		out = AnalyzeSoil(7.5, 40)
		assert.Equal(t, StatusOptimal, out.PHStatus)
		assert.Equal(t, StatusOptimal, out.MoistureStatus)
	})
}

func TestAnalyzeClimate(t *testing.T) {
	t.Run("cool band suggests cold-weather grains", func(t *testing.T) {
		out := AnalyzeClimate(14, 180)
		assert.Equal(t, BandCool, out.TempCategory)
		assert.Equal(t, []string{"Wheat", "Barley", "Oats"}, out.SuitableCrops)
		assert.Equal(t, BandModerate, out.RainCategory)
		assert.Empty(t, out.Recommendations)
	})

	t.Run("hot band", func(t *testing.T) {
		out := AnalyzeClimate(32, 180)
		assert.Equal(t, BandHot, out.TempCategory)
		assert.Equal(t, []string{"Corn", "Sorghum", "Cotton"}, out.SuitableCrops)
	})

	t.Run("moderate band carries the widest shortlist", func(t *testing.T) {
		out := AnalyzeClimate(24.2, 180.5)
		assert.Equal(t, BandModerate, out.TempCategory)
		assert.Contains(t, out.SuitableCrops, "Rice")
		assert.Len(t, out.SuitableCrops, 4)
	})

	t.Run("low rainfall", func(t *testing.T) {
		out := AnalyzeClimate(24, 80)
		assert.Equal(t, BandLow, out.RainCategory)
		require.Len(t, out.Recommendations, 1)
		assert.Equal(t, "Low rainfall", out.Recommendations[0].Focus)
	})

	t.Run("high rainfall", func(t *testing.T) {
		out := AnalyzeClimate(24, 300)
		assert.Equal(t, BandHigh, out.RainCategory)
		require.Len(t, out.Recommendations, 1)
		assert.Equal(t, "High rainfall", out.Recommendations[0].Focus)
	})
}
