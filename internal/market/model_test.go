package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

func record(product, seasonTag string, price, demand, supply, trend float64) agri.MarketRecord {
	return agri.MarketRecord{
		Product:         product,
		PricePerTon:     price,
		DemandIndex:     demand,
		SupplyIndex:     supply,
		CompetitorPrice: price,
		ConsumerTrend:   trend,
		SeasonalFactor:  seasonTag,
	}
}

func TestMarketStatus(t *testing.T) {
	assert.Equal(t, StatusUndersupplied, MarketStatus(150, 100))
	assert.Equal(t, StatusOversupplied, MarketStatus(79, 100))
	assert.Equal(t, StatusBalanced, MarketStatus(100, 100))
	assert.Equal(t, StatusBalanced, MarketStatus(120, 100))
	assert.Equal(t, StatusBalanced, MarketStatus(80, 100))

	t.Run("zero supply is undersupplied", func(t *testing.T) {
		assert.Equal(t, StatusUndersupplied, MarketStatus(50, 0))
		assert.Equal(t, StatusUndersupplied, MarketStatus(0, 0))
	})

	t.Run("monotonic in demand at fixed supply", func(t *testing.T) {
		rank := map[Status]int{StatusOversupplied: 0, StatusBalanced: 1, StatusUndersupplied: 2}
		prev := MarketStatus(0, 100)
		for demand := 10.0; demand <= 300; demand += 10 {
			cur := MarketStatus(demand, 100)
			assert.GreaterOrEqual(t, rank[cur], rank[prev], "demand %.0f", demand)
			prev = cur
		}
	})
}

func TestAnalyzeProductEmpty(t *testing.T) {
	_, err := AnalyzeProduct(nil, HorizonShort)
	assert.ErrorIs(t, err, agri.ErrNotFound)
}

func TestAnalyzeProductAverages(t *testing.T) {
	records := []agri.MarketRecord{
		record("Wheat", "spring", 200, 140, 100, 110),
		record("Wheat", "summer", 300, 160, 100, 130),
	}

	a, err := AnalyzeProduct(records, HorizonShort)
	require.NoError(t, err)

	assert.Equal(t, "Wheat", a.Product)
	assert.InDelta(t, 250, a.AvgPrice, 1e-9)
	assert.InDelta(t, 150, a.AvgDemand, 1e-9)
	assert.InDelta(t, 100, a.AvgSupply, 1e-9)
	assert.Equal(t, StatusUndersupplied, a.Status)
	assert.Equal(t, "summer", a.Seasonal.HighestPriceSeason)
	assert.Equal(t, "summer", a.Seasonal.HighestDemandSeason)
	assert.Equal(t, TrendStrongUp, a.DemandTrend.Status)

	var focuses []string
	for _, rec := range a.Recommendations {
		focuses = append(focuses, rec.Focus)
	}
	assert.Contains(t, focuses, "Production Increase")
	assert.Contains(t, focuses, "Market Expansion")
	assert.Contains(t, focuses, "Timing Optimization")
}

func TestAnalyzeSeasonalTieBreak(t *testing.T) {
	// Equal prices in both seasons: the alphabetically first season wins so
	// the argmax is stable run to run.
	records := []agri.MarketRecord{
		record("Rice", "summer", 100, 100, 100, 100),
		record("Rice", "spring", 100, 100, 100, 100),
	}

	s := analyzeSeasonal(records)
	assert.Equal(t, "spring", s.HighestPriceSeason)
	assert.Equal(t, "spring", s.HighestDemandSeason)

	// Matching peak seasons emit only the timing item.
	require.Len(t, s.Recommendations, 1)
	assert.Equal(t, "Seasonal Timing", s.Recommendations[0].Focus)
}

func TestAnalyzeSeasonalSplitPeaks(t *testing.T) {
	records := []agri.MarketRecord{
		record("Rice", "winter", 300, 90, 100, 100),
		record("Rice", "summer", 100, 180, 100, 100),
	}

	s := analyzeSeasonal(records)
	assert.Equal(t, "winter", s.HighestPriceSeason)
	assert.Equal(t, "summer", s.HighestDemandSeason)
	require.Len(t, s.Recommendations, 2)
	assert.Equal(t, "Production Planning", s.Recommendations[1].Focus)
}

func TestAnalyzeDemandTrendBuckets(t *testing.T) {
	cases := []struct {
		trend float64
		want  TrendStatus
	}{
		{130, TrendStrongUp},
		{110, TrendUp},
		{95, TrendStable},
		{80, TrendDown},
		{60, TrendStrongDown},
	}
	for _, tc := range cases {
		records := []agri.MarketRecord{record("Oats", "fall", 100, 100, 100, tc.trend)}
		got := analyzeDemandTrend(records)
		assert.Equal(t, tc.want, got.Status, "trend %v", tc.trend)
		assert.NotEmpty(t, got.Message)
	}
}

func TestForecastPriceShortHorizon(t *testing.T) {
	records := []agri.MarketRecord{record("Corn", "spring", 100, 100, 150, 80)}

	pf := forecastPrice(records, HorizonShort)

	// factor = (0.88 + 0.92 + 1.00 + 0.96) / 4 = 0.94
	assert.InDelta(t, 94, pf.ForecastPrice, 1e-9)
	assert.InDelta(t, -6, pf.ChangePercent, 1e-9)
	assert.Equal(t, 0.8, pf.Confidence)
	assert.Equal(t, PriceSlightDown, pf.Trend)
	assert.Equal(t, HorizonShort, pf.Horizon)
}

func TestForecastPriceLongHorizonExponent(t *testing.T) {
	// The long horizon raises the blended factor to the 1.5 power. For
	// factors below 1 this deepens the projected decline instead of damping
	// it; the behavior is intentional and must not drift.
	records := []agri.MarketRecord{record("Corn", "spring", 100, 100, 150, 80)}

	pf := forecastPrice(records, HorizonLong)

	// factor = (0.94 + 0.96 + 1.00 + 0.90) / 4 = 0.95
	want := 100 * math.Pow(0.95, 1.5)
	assert.InDelta(t, want, pf.ForecastPrice, 1e-9)
	assert.Less(t, pf.ForecastPrice, 95.0)
	assert.Equal(t, 0.6, pf.Confidence)
}

func TestForecastPriceTrendBuckets(t *testing.T) {
	t.Run("rising market", func(t *testing.T) {
		records := []agri.MarketRecord{{
			Product: "Soybean", PricePerTon: 100, DemandIndex: 150,
			SupplyIndex: 100, CompetitorPrice: 120, ConsumerTrend: 120,
			SeasonalFactor: "fall",
		}}
		pf := forecastPrice(records, HorizonShort)
		// factor = (1.12 + 1.08 + 1.06 + 1.04) / 4 = 1.075
		assert.InDelta(t, 107.5, pf.ForecastPrice, 1e-9)
		assert.Equal(t, PriceSlightUp, pf.Trend)
	})

	t.Run("flat market is stable", func(t *testing.T) {
		records := []agri.MarketRecord{record("Soybean", "fall", 100, 125, 125, 100)}
		pf := forecastPrice(records, HorizonShort)
		assert.InDelta(t, 100, pf.ForecastPrice, 1e-9)
		assert.Equal(t, PriceStable, pf.Trend)
	})
}

func TestRecommendationsBySignal(t *testing.T) {
	t.Run("oversupplied declining market", func(t *testing.T) {
		a := ProductAnalysis{
			Product:       "Barley",
			Status:        StatusOversupplied,
			DemandTrend:   DemandTrend{Status: TrendDown},
			PriceForecast: PriceForecast{Trend: PriceDown, Confidence: 0.8},
			Seasonal:      SeasonalAnalysis{HighestPriceSeason: "winter"},
		}
		items := recommendations(a)
		var focuses []string
		for _, it := range items {
			focuses = append(focuses, it.Focus)
		}
		assert.Equal(t, []string{"Diversification", "Cost Reduction", "Crop Switching", "Timing Optimization"}, focuses)
	})

	t.Run("balanced stable market only times the harvest", func(t *testing.T) {
		a := ProductAnalysis{
			Product:       "Barley",
			Status:        StatusBalanced,
			DemandTrend:   DemandTrend{Status: TrendStable},
			PriceForecast: PriceForecast{Trend: PriceStable},
			Seasonal:      SeasonalAnalysis{HighestPriceSeason: "fall"},
		}
		items := recommendations(a)
		require.Len(t, items, 1)
		assert.Equal(t, "Timing Optimization", items[0].Focus)
	})
}
