package market

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

// ProductSummary is the per-product slice of a market overview.
type ProductSummary struct {
	AvgPrice         float64 `json:"avg_price"`
	AvgDemand        float64 `json:"avg_demand"`
	AvgSupply        float64 `json:"avg_supply"`
	AvgConsumerTrend float64 `json:"avg_consumer_trend"`
	Status           Status  `json:"market_status"`
}

// Opportunity is one of the top-ranked products by profit potential.
type Opportunity struct {
	Product         string  `json:"product"`
	ProfitPotential float64 `json:"profit_potential"`
	AvgPrice        float64 `json:"avg_price"`
	Status          Status  `json:"market_status"`
	ConsumerTrend   float64 `json:"consumer_trend"`
	Recommendation  string  `json:"recommendation"`
	Confidence      float64 `json:"confidence"`
}

// OverviewReport ranks every product by a profit-potential heuristic and
// surfaces the top three.
type OverviewReport struct {
	Horizon   Horizon                   `json:"time_horizon"`
	TopCrops  []Opportunity             `json:"top_profit_potential_crops"`
	ByProduct map[string]ProductSummary `json:"full_market_analysis"`
}

// Overview analyzes the whole market with no specific product: profit
// potential per product = mean price x demand/supply ratio x trend/100,
// ranked descending. Non-positive supply yields an infinite ratio, so such
// products rank first; that mirrors the undersupplied classification.
func Overview(records []agri.MarketRecord, horizon Horizon) (OverviewReport, error) {
	if len(records) == 0 {
		return OverviewReport{}, fmt.Errorf("%w: no market records", agri.ErrNotFound)
	}

	byProduct := map[string][]agri.MarketRecord{}
	for _, r := range records {
		byProduct[r.Product] = append(byProduct[r.Product], r)
	}

	report := OverviewReport{Horizon: horizon, ByProduct: make(map[string]ProductSummary, len(byProduct))}
	potentials := make(map[string]float64, len(byProduct))
	for product, group := range byProduct {
		s := ProductSummary{
			AvgPrice:         meanOf(group, func(r agri.MarketRecord) float64 { return r.PricePerTon }),
			AvgDemand:        meanOf(group, func(r agri.MarketRecord) float64 { return r.DemandIndex }),
			AvgSupply:        meanOf(group, func(r agri.MarketRecord) float64 { return r.SupplyIndex }),
			AvgConsumerTrend: meanOf(group, func(r agri.MarketRecord) float64 { return r.ConsumerTrend }),
		}
		s.Status = MarketStatus(s.AvgDemand, s.AvgSupply)
		report.ByProduct[product] = s

		ratio := math.Inf(1)
		if s.AvgSupply > 0 {
			ratio = s.AvgDemand / s.AvgSupply
		}
		potentials[product] = s.AvgPrice * ratio * (s.AvgConsumerTrend / 100)
	}

	products := maps.Keys(potentials)
	// Rank by potential descending; name breaks ties so the ordering is
	// deterministic.
	sort.SliceStable(products, func(i, j int) bool {
		if potentials[products[i]] != potentials[products[j]] {
			return potentials[products[i]] > potentials[products[j]]
		}
		return products[i] < products[j]
	})

	confidence := 0.8
	if horizon == HorizonLong {
		confidence = 0.6
	}
	for _, product := range products {
		if len(report.TopCrops) >= 3 {
			break
		}
		s := report.ByProduct[product]
		report.TopCrops = append(report.TopCrops, Opportunity{
			Product:         product,
			ProfitPotential: potentials[product],
			AvgPrice:        s.AvgPrice,
			Status:          s.Status,
			ConsumerTrend:   s.AvgConsumerTrend,
			Recommendation:  fmt.Sprintf("%s shows high profit potential with %s and %s", product, statusNarrative(s.Status), trendNarrative(s.AvgConsumerTrend)),
			Confidence:      confidence,
		})
	}
	return report, nil
}

func statusNarrative(s Status) string {
	switch s {
	case StatusUndersupplied:
		return "demand exceeds supply"
	case StatusOversupplied:
		return "supply exceeds demand"
	default:
		return "market is balanced"
	}
}

func trendNarrative(trend float64) string {
	switch {
	case trend > 110:
		return "strongly growing consumer interest"
	case trend > 100:
		return "growing consumer interest"
	case trend > 90:
		return "stable consumer interest"
	default:
		return "declining consumer interest"
	}
}

// Diversification suggests up to two top alternatives to the current crop,
// plus a general multi-crop risk strategy.
func Diversification(report OverviewReport, currentCrop string) []agri.RecommendationItem {
	var items []agri.RecommendationItem
	for _, opp := range report.TopCrops {
		if len(items) >= 2 {
			break
		}
		if strings.EqualFold(opp.Product, currentCrop) {
			continue
		}
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          fmt.Sprintf("Diversification: %s", opp.Product),
			Action:         fmt.Sprintf("Consider allocating a portion of your land to %s as a diversification strategy", opp.Product),
			EconomicImpact: opp.ProfitPotential / 100, // scale potential to impact points
			Confidence:     opp.Confidence,
		})
	}
	items = append(items, agri.RecommendationItem{
		Category:       agri.CategoryMarketStrategy,
		Focus:          "Risk Management",
		Action:         "Implement a multi-crop strategy to reduce market volatility risks",
		EconomicImpact: 1.4,
		Confidence:     0.85,
	})
	return items
}

// SeasonalStrategy finds the best-priced season per product and recommends
// harvest timing for up to three products.
func SeasonalStrategy(records []agri.MarketRecord, horizon Horizon) []agri.RecommendationItem {
	type key struct{ season, product string }
	type acc struct {
		price float64
		n     int
	}
	groups := map[key]*acc{}
	for _, r := range records {
		k := key{r.SeasonalFactor, r.Product}
		g := groups[k]
		if g == nil {
			g = &acc{}
			groups[k] = g
		}
		g.price += r.PricePerTon
		g.n++
	}

	bestSeason := map[string]string{}
	bestPrice := map[string]float64{}
	keys := maps.Keys(groups)
	slices.SortFunc(keys, func(a, b key) int {
		if a.product != b.product {
			return strings.Compare(a.product, b.product)
		}
		return strings.Compare(a.season, b.season)
	})
	for _, k := range keys {
		avg := groups[k].price / float64(groups[k].n)
		if avg > bestPrice[k.product] {
			bestPrice[k.product] = avg
			bestSeason[k.product] = k.season
		}
	}

	confidence := 0.8
	if horizon == HorizonLong {
		confidence = 0.6
	}
	products := maps.Keys(bestSeason)
	slices.Sort(products)

	var items []agri.RecommendationItem
	for _, product := range products {
		if len(items) >= 3 {
			break
		}
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          fmt.Sprintf("Seasonal Timing: %s", product),
			Action:         fmt.Sprintf("For %s, plan harvest to coincide with %s season for optimal pricing", product, bestSeason[product]),
			EconomicImpact: 1.5,
			Confidence:     confidence,
		})
	}
	return items
}

// GenerateRecommendations builds the market-side action list for synthesis:
// top opportunities, the current crop's market signals, diversification
// options, and seasonal timing, in that order.
func GenerateRecommendations(records []agri.MarketRecord, cropType string, horizon Horizon) []agri.RecommendationItem {
	report, err := Overview(records, horizon)
	if err != nil {
		return nil
	}

	var items []agri.RecommendationItem
	for _, opp := range report.TopCrops {
		items = append(items, agri.RecommendationItem{
			Category:       agri.CategoryMarketStrategy,
			Focus:          fmt.Sprintf("High Potential: %s", opp.Product),
			Action:         opp.Recommendation,
			EconomicImpact: opp.ProfitPotential / 100,
			Confidence:     opp.Confidence,
		})
	}

	if cropType != "" {
		var productRecords []agri.MarketRecord
		for _, r := range records {
			if strings.EqualFold(r.Product, cropType) {
				productRecords = append(productRecords, r)
			}
		}
		if analysis, err := AnalyzeProduct(productRecords, horizon); err == nil {
			items = append(items, analysis.Recommendations...)
		}
	}

	items = append(items, Diversification(report, cropType)...)
	items = append(items, SeasonalStrategy(records, horizon)...)
	return items
}
