// Package agri holds the shared domain records and category enums used by
// every analysis engine. All enumerated categories are closed types so
// exhaustiveness is checkable at the switch sites.
package agri

// ParcelRecord is an immutable snapshot of one unit of farmland as stored by
// the repository. The core never mutates it; updates happen externally.
type ParcelRecord struct {
	ID                  int64   `db:"parcel_id" json:"parcel_id"`
	SoilPH              float64 `db:"soil_ph" json:"soil_ph"`
	SoilMoisture        float64 `db:"soil_moisture" json:"soil_moisture"`
	TemperatureC        float64 `db:"temperature_c" json:"temperature_c"`
	RainfallMM          float64 `db:"rainfall_mm" json:"rainfall_mm"`
	CropType            string  `db:"crop_type" json:"crop_type"`
	FertilizerKG        float64 `db:"fertilizer_usage_kg" json:"fertilizer_usage_kg"`
	PesticideKG         float64 `db:"pesticide_usage_kg" json:"pesticide_usage_kg"`
	YieldTons           float64 `db:"crop_yield_ton" json:"crop_yield_ton"`
	SustainabilityScore float64 `db:"sustainability_score" json:"sustainability_score"`
}

// MarketRecord is one price/demand observation for a product in a
// time/region bucket. Many records exist per product.
type MarketRecord struct {
	ID              int64   `db:"market_id" json:"market_id"`
	Product         string  `db:"product" json:"product"`
	PricePerTon     float64 `db:"market_price_per_ton" json:"market_price_per_ton"`
	DemandIndex     float64 `db:"demand_index" json:"demand_index"`
	SupplyIndex     float64 `db:"supply_index" json:"supply_index"`
	CompetitorPrice float64 `db:"competitor_price_per_ton" json:"competitor_price_per_ton"`
	EconomicIndex   float64 `db:"economic_indicator" json:"economic_indicator"`
	WeatherImpact   float64 `db:"weather_impact_score" json:"weather_impact_score"`
	SeasonalFactor  string  `db:"seasonal_factor" json:"seasonal_factor"`
	ConsumerTrend   float64 `db:"consumer_trend_index" json:"consumer_trend_index"`
}

// Category tags one recommendation with the kind of action it proposes.
type Category string

const (
	CategoryCropSelection       Category = "Crop Selection"
	CategoryResourceOptimize    Category = "Resource Optimization"
	CategorySustainablePractice Category = "Sustainable Practices"
	CategoryMarketStrategy      Category = "Market Strategy"
	CategoryWeatherManagement   Category = "Weather Management"
	CategorySeasonalPlanning    Category = "Seasonal Planning"
)

// RecommendationItem is a single proposed action emitted by one of the
// analysis engines. SustainabilityImpact is unit-less points (higher is more
// beneficial); EconomicImpact is signed (positive saves or earns money,
// negative costs money). The two are comparable only after the synthesis
// engine normalizes them under a preference weight, never raw.
type RecommendationItem struct {
	Category             Category `json:"category"`
	Focus                string   `json:"focus"`
	Action               string   `json:"action"`
	SustainabilityImpact float64  `json:"sustainability_impact"`
	EconomicImpact       float64  `json:"economic_impact"`
	Confidence           float64  `json:"confidence"` // must stay in [0,1]
}

// ScoredRecommendation pairs an item with its derived synthesis score. It is
// created only inside the synthesis engine and lives for one request.
type ScoredRecommendation struct {
	RecommendationItem
	SourceWeight float64 `json:"source_weight"`
	Score        float64 `json:"score"`
}

// FinancialGoal is the farmer's stated economic priority.
type FinancialGoal string

const (
	GoalMaximizeProfit FinancialGoal = "maximize_profit"
	GoalMinimizeCost   FinancialGoal = "minimize_cost"
	GoalBalance        FinancialGoal = "balance"
)

// PreferenceContext carries the per-call tuning for one synthesis request.
// Not stored by the core.
type PreferenceContext struct {
	ParcelID                 int64         `json:"parcel_id"`
	Region                   string        `json:"region"`
	FinancialGoal            FinancialGoal `json:"financial_goal"`
	SustainabilityPreference int           `json:"sustainability_preference"` // 1–10, clamped
}

// SustainabilitySummary reports how far the top-ranked actions could move a
// parcel's sustainability score.
type SustainabilitySummary struct {
	CurrentScore          float64 `json:"current_score"`
	PotentialScore        float64 `json:"potential_score"`
	ImprovementPercentage float64 `json:"improvement_percentage"`
}
