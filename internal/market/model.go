// Package market analyzes demand/supply balance, seasonality, consumer
// trends, and price forecasts from market records, and turns the signals
// into economically-weighted recommendations.
package market

import (
	"fmt"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

// Horizon selects the forecast distance; it shifts the factor weights of the
// price model.
type Horizon string

const (
	HorizonShort Horizon = "short-term"
	HorizonLong  Horizon = "long-term"
)

// Status is the demand/supply balance classification.
type Status string

const (
	StatusUndersupplied Status = "undersupplied"
	StatusOversupplied  Status = "oversupplied"
	StatusBalanced      Status = "balanced"
)

// TrendStatus buckets the consumer-trend index.
type TrendStatus string

const (
	TrendStrongUp   TrendStatus = "strongly_increasing"
	TrendUp         TrendStatus = "increasing"
	TrendStable     TrendStatus = "stable"
	TrendDown       TrendStatus = "decreasing"
	TrendStrongDown TrendStatus = "strongly_decreasing"
)

// PriceTrend buckets the forecast-to-current price ratio.
type PriceTrend string

const (
	PriceUp         PriceTrend = "increasing"
	PriceSlightUp   PriceTrend = "slightly_increasing"
	PriceStable     PriceTrend = "stable"
	PriceSlightDown PriceTrend = "slightly_decreasing"
	PriceDown       PriceTrend = "decreasing"
)

// SeasonStats are the per-season aggregates for one product.
type SeasonStats struct {
	AvgPrice  float64 `json:"avg_price"`
	AvgDemand float64 `json:"avg_demand"`
	AvgSupply float64 `json:"avg_supply"`
	Count     int     `json:"count"`
}

// SeasonalAnalysis groups records by their seasonal-factor tag. The highest-
// price and highest-demand seasons may differ; both feed timing advice.
type SeasonalAnalysis struct {
	BySeason            map[string]SeasonStats    `json:"seasonal_data"`
	HighestPriceSeason  string                    `json:"highest_price_season"`
	HighestDemandSeason string                    `json:"highest_demand_season"`
	Recommendations     []agri.RecommendationItem `json:"recommendations"`
}

// DemandTrend classifies the mean consumer-trend index.
type DemandTrend struct {
	ConsumerTrendIndex float64     `json:"consumer_trend_index"`
	Status             TrendStatus `json:"trend_status"`
	Message            string      `json:"trend_message"`
}

// PriceForecast is the horizon-weighted multi-factor price projection.
type PriceForecast struct {
	CurrentPrice  float64    `json:"current_price"`
	ForecastPrice float64    `json:"forecast_price"`
	ChangePercent float64    `json:"price_change_percent"`
	Confidence    float64    `json:"forecast_confidence"`
	Trend         PriceTrend `json:"price_trend"`
	Message       string     `json:"forecast_message"`
	Horizon       Horizon    `json:"time_horizon"`
}

// ProductAnalysis is the full market read on one product.
type ProductAnalysis struct {
	Product         string                    `json:"product"`
	AvgPrice        float64                   `json:"avg_market_price"`
	AvgDemand       float64                   `json:"avg_demand_index"`
	AvgSupply       float64                   `json:"avg_supply_index"`
	Status          Status                    `json:"market_status"`
	Seasonal        SeasonalAnalysis          `json:"seasonal_analysis"`
	DemandTrend     DemandTrend               `json:"demand_trend"`
	PriceForecast   PriceForecast             `json:"price_forecast"`
	Recommendations []agri.RecommendationItem `json:"market_recommendations"`
}

// MarketStatus classifies the demand/supply ratio. Non-positive supply is
// treated as an infinite ratio, hence undersupplied.
func MarketStatus(demand, supply float64) Status {
	ratio := math.Inf(1)
	if supply > 0 {
		ratio = demand / supply
	}
	switch {
	case ratio > 1.2:
		return StatusUndersupplied
	case ratio < 0.8:
		return StatusOversupplied
	default:
		return StatusBalanced
	}
}

// AnalyzeProduct runs the full market analysis over the records of a single
// product. Returns agri.ErrNotFound when records is empty.
func AnalyzeProduct(records []agri.MarketRecord, horizon Horizon) (ProductAnalysis, error) {
	if len(records) == 0 {
		return ProductAnalysis{}, fmt.Errorf("%w: no market records", agri.ErrNotFound)
	}

	a := ProductAnalysis{
		Product:   records[0].Product,
		AvgPrice:  meanOf(records, func(r agri.MarketRecord) float64 { return r.PricePerTon }),
		AvgDemand: meanOf(records, func(r agri.MarketRecord) float64 { return r.DemandIndex }),
		AvgSupply: meanOf(records, func(r agri.MarketRecord) float64 { return r.SupplyIndex }),
	}
	a.Status = MarketStatus(a.AvgDemand, a.AvgSupply)
	a.Seasonal = analyzeSeasonal(records)
	a.DemandTrend = analyzeDemandTrend(records)
	a.PriceForecast = forecastPrice(records, horizon)
	a.Recommendations = recommendations(a)
	return a, nil
}

func analyzeSeasonal(records []agri.MarketRecord) SeasonalAnalysis {
	type acc struct {
		price, demand, supply float64
		n                     int
	}
	groups := map[string]*acc{}
	for _, r := range records {
		g := groups[r.SeasonalFactor]
		if g == nil {
			g = &acc{}
			groups[r.SeasonalFactor] = g
		}
		g.price += r.PricePerTon
		g.demand += r.DemandIndex
		g.supply += r.SupplyIndex
		g.n++
	}

	out := SeasonalAnalysis{BySeason: make(map[string]SeasonStats, len(groups))}
	// Iterate seasons in sorted order so the argmax is deterministic when
	// two seasons tie.
	names := maps.Keys(groups)
	slices.Sort(names)
	for _, name := range names {
		g := groups[name]
		stats := SeasonStats{
			AvgPrice:  g.price / float64(g.n),
			AvgDemand: g.demand / float64(g.n),
			AvgSupply: g.supply / float64(g.n),
			Count:     g.n,
		}
		out.BySeason[name] = stats
		if out.HighestPriceSeason == "" || stats.AvgPrice > out.BySeason[out.HighestPriceSeason].AvgPrice {
			out.HighestPriceSeason = name
		}
		if out.HighestDemandSeason == "" || stats.AvgDemand > out.BySeason[out.HighestDemandSeason].AvgDemand {
			out.HighestDemandSeason = name
		}
	}

	out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
		Category:       agri.CategoryMarketStrategy,
		Focus:          "Seasonal Timing",
		Action:         fmt.Sprintf("Target %s season for selling when prices are typically highest", out.HighestPriceSeason),
		EconomicImpact: 1.6,
		Confidence:     0.8,
	})
	if out.HighestDemandSeason != out.HighestPriceSeason {
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Production Planning",
			Action:         fmt.Sprintf("Plan production cycles to have maximum harvest ready for %s season when demand peaks", out.HighestDemandSeason),
			EconomicImpact: 1.4,
			Confidence:     0.75,
		})
	}
	return out
}

func analyzeDemandTrend(records []agri.MarketRecord) DemandTrend {
	avg := meanOf(records, func(r agri.MarketRecord) float64 { return r.ConsumerTrend })

	t := DemandTrend{ConsumerTrendIndex: avg}
	switch {
	case avg > 120:
		t.Status = TrendStrongUp
		t.Message = "Consumer demand is growing rapidly, indicating a strong market outlook."
	case avg > 100:
		t.Status = TrendUp
		t.Message = "Consumer demand is growing steadily, suggesting a positive market outlook."
	case avg > 90:
		t.Status = TrendStable
		t.Message = "Consumer demand is stable, suggesting a consistent market."
	case avg > 70:
		t.Status = TrendDown
		t.Message = "Consumer demand is declining, suggesting caution in market planning."
	default:
		t.Status = TrendStrongDown
		t.Message = "Consumer demand is falling rapidly, suggesting significant market challenges."
	}
	return t
}

// forecastPrice blends four normalized factors with horizon-dependent
// weights. Long-term applies an extra 1.5 exponent to amplify the trend
// effect; for blended factors below 1 the exponent deepens the projected
// decline rather than damping it. That asymmetry matches the deployed model
// and is pinned under test — do not "fix" it here.
func forecastPrice(records []agri.MarketRecord, horizon Horizon) PriceForecast {
	current := meanOf(records, func(r agri.MarketRecord) float64 { return r.PricePerTon })
	demand := meanOf(records, func(r agri.MarketRecord) float64 { return r.DemandIndex })
	supply := meanOf(records, func(r agri.MarketRecord) float64 { return r.SupplyIndex })
	competitor := meanOf(records, func(r agri.MarketRecord) float64 { return r.CompetitorPrice })
	trend := meanOf(records, func(r agri.MarketRecord) float64 { return r.ConsumerTrend })

	var forecast, confidence float64
	if horizon == HorizonLong {
		demandFactor := 0.3*(demand/125-1) + 1
		supplyFactor := 0.2*(1-supply/125) + 1
		competitorFactor := 0.2*(competitor/current-1) + 1
		trendFactor := 0.5*(trend/100-1) + 1
		factor := (demandFactor + supplyFactor + competitorFactor + trendFactor) / 4
		forecast = current * math.Pow(factor, 1.5)
		confidence = 0.6
	} else {
		demandFactor := 0.6*(demand/125-1) + 1
		supplyFactor := 0.4*(1-supply/125) + 1
		competitorFactor := 0.3*(competitor/current-1) + 1
		trendFactor := 0.2*(trend/100-1) + 1
		factor := (demandFactor + supplyFactor + competitorFactor + trendFactor) / 4
		forecast = current * factor
		confidence = 0.8
	}

	pf := PriceForecast{
		CurrentPrice:  current,
		ForecastPrice: forecast,
		ChangePercent: (forecast/current - 1) * 100,
		Confidence:    confidence,
		Horizon:       horizon,
	}
	switch {
	case forecast > current*1.1:
		pf.Trend = PriceUp
		pf.Message = "Prices are expected to increase significantly."
	case forecast > current*1.02:
		pf.Trend = PriceSlightUp
		pf.Message = "Prices are expected to increase slightly."
	case forecast < current*0.9:
		pf.Trend = PriceDown
		pf.Message = "Prices are expected to decrease significantly."
	case forecast < current*0.98:
		pf.Trend = PriceSlightDown
		pf.Message = "Prices are expected to decrease slightly."
	default:
		pf.Trend = PriceStable
		pf.Message = "Prices are expected to remain stable."
	}
	return pf
}

// recommendations combines the market-status, price-trend, demand-trend, and
// best-season signals into up to four action items.
func recommendations(a ProductAnalysis) []agri.RecommendationItem {
	var items []agri.RecommendationItem

	switch a.Status {
	case StatusUndersupplied:
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Production Increase",
			Action:         fmt.Sprintf("Consider increasing %s production to capitalize on high demand", a.Product),
			EconomicImpact: 2.0,
			Confidence:     0.85,
		})
	case StatusOversupplied:
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Diversification",
			Action:         fmt.Sprintf("Consider reducing %s production or finding alternative markets", a.Product),
			EconomicImpact: 1.2,
			Confidence:     0.8,
		})
	}

	switch a.PriceForecast.Trend {
	case PriceUp, PriceSlightUp:
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Investment",
			Action:         fmt.Sprintf("Consider investing in %s production capacity for %s gains", a.Product, a.PriceForecast.Horizon),
			EconomicImpact: 1.8,
			Confidence:     a.PriceForecast.Confidence,
		})
	case PriceDown, PriceSlightDown:
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Cost Reduction",
			Action:         fmt.Sprintf("Focus on reducing production costs for %s to maintain profitability as prices decline", a.Product),
			EconomicImpact: 1.5,
			Confidence:     a.PriceForecast.Confidence,
		})
	}

	switch a.DemandTrend.Status {
	case TrendStrongUp, TrendUp:
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Market Expansion",
			Action:         fmt.Sprintf("Explore new market channels for %s to capitalize on growing consumer interest", a.Product),
			EconomicImpact: 1.7,
			Confidence:     0.75,
		})
	case TrendDown, TrendStrongDown:
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Crop Switching",
			Action:         fmt.Sprintf("Consider gradually transitioning from %s to crops with better demand trends", a.Product),
			EconomicImpact: 1.6,
			Confidence:     0.7,
		})
	}

	if a.Seasonal.HighestPriceSeason != "" {
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          "Timing Optimization",
			Action:         fmt.Sprintf("Time your %s harvest to coincide with %s season for optimal pricing", a.Product, a.Seasonal.HighestPriceSeason),
			EconomicImpact: 1.4,
			Confidence:     0.8,
		})
	}
	return items
}

func meanOf(records []agri.MarketRecord, f func(agri.MarketRecord) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += f(r)
	}
	return sum / float64(len(records))
}
