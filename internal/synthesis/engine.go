// Package synthesis merges the farming, market, and weather analyses into
// one ranked, preference-weighted action list. It is a single-pass pipeline:
// the three domain engines are independent, order-insensitive, and share no
// mutable state; this package owns the lifetime of every recommendation it
// creates for the duration of one request.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Kritansh-Tank/AgroInsight/internal/advisor"
	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/llm"
	"github.com/Kritansh-Tank/AgroInsight/internal/market"
	"github.com/Kritansh-Tank/AgroInsight/internal/season"
	"github.com/Kritansh-Tank/AgroInsight/internal/weather"
)

// Source weights reflect agent-authority priority when merging
// recommendations across domains.
const (
	weightFarming = 1.0
	weightMarket  = 0.9
	weightWeather = 0.8
)

// Repository is the external storage collaborator. The engine only reads
// records and appends emitted recommendations; it never mutates parcels.
type Repository interface {
	Parcel(id int64) (agri.ParcelRecord, error)
	Parcels(cropFilter string) ([]agri.ParcelRecord, error)
	MarketRecords(productFilter string) ([]agri.MarketRecord, error)
	AppendRecommendation(parcelID int64, item agri.RecommendationItem) (string, error)
}

// Engine orchestrates the domain engines over a repository. The LLM client
// is optional; a nil client disables enrichment.
type Engine struct {
	repo Repository
	sim  *weather.Simulator
	llm  *llm.Client
}

// New builds a synthesis engine.
func New(repo Repository, sim *weather.Simulator, enricher *llm.Client) *Engine {
	return &Engine{repo: repo, sim: sim, llm: enricher}
}

// Enrichment is supplementary narrative attached to a report. Never an input
// to scoring.
type Enrichment struct {
	ParcelNarrative  string `json:"parcel_narrative,omitempty"`
	MarketNarrative  string `json:"market_narrative,omitempty"`
	WeatherNarrative string `json:"weather_narrative,omitempty"`
}

// Report is the result of one synthesis call.
type Report struct {
	ID            string                      `json:"report_id"`
	Parcel        agri.ParcelRecord           `json:"parcel"`
	FarmAnalysis  advisor.Analysis            `json:"farm_analysis"`
	RankedActions []agri.ScoredRecommendation `json:"ranked_actions"`
	Summary       agri.SustainabilitySummary  `json:"sustainability_summary"`
	Enrichment    *Enrichment                 `json:"enrichment,omitempty"`
}

// Synthesize runs the full pipeline for one parcel: farming, market, and
// weather recommendations are generated independently, scored under the
// preference weighting, and the top five survive. An unknown parcel
// short-circuits before any sub-engine runs.
func (e *Engine) Synthesize(ctx context.Context, pref agri.PreferenceContext) (*Report, error) {
	parcel, err := e.repo.Parcel(pref.ParcelID)
	if err != nil {
		return nil, err
	}

	preference := clampPreference(pref.SustainabilityPreference)

	allParcels, err := e.repo.Parcels("")
	if err != nil {
		return nil, fmt.Errorf("fetch parcels: %w", err)
	}
	marketRecords, err := e.repo.MarketRecords("")
	if err != nil {
		return nil, fmt.Errorf("fetch market records: %w", err)
	}

	forecast, err := e.sim.Forecast(pref.Region, 14)
	if err != nil {
		return nil, err
	}
	farming := advisor.GenerateRecommendations(parcel, preference)
	marketRecs := market.GenerateRecommendations(marketRecords, parcel.CropType, market.HorizonShort)
	// Seasonal planning keys off today, not the forecast's first day, so a
	// season boundary at midnight does not skip the outgoing season's plan.
	weatherRecs := weather.Recommendations(forecast, season.ForDate(e.sim.Today()))

	scored, err := scoreAll(preference, farming, marketRecs, weatherRecs)
	if err != nil {
		return nil, err
	}
	if len(scored) > 5 {
		scored = scored[:5]
	}

	// Every emitted item is recorded against the parcel; a storage hiccup
	// degrades to a log line rather than failing the synthesis.
	for _, group := range [][]agri.RecommendationItem{farming, marketRecs, weatherRecs} {
		for _, item := range group {
			if _, err := e.repo.AppendRecommendation(parcel.ID, item); err != nil {
				slog.Warn("failed to record recommendation", "parcel", parcel.ID, "error", err)
			}
		}
	}

	report := &Report{
		ID:            uuid.NewString(),
		Parcel:        parcel,
		FarmAnalysis:  advisor.Analyze(parcel, allParcels),
		RankedActions: scored,
		Summary:       summarize(parcel.SustainabilityScore, scored),
	}
	e.enrich(ctx, report, forecast, pref.Region)
	return report, nil
}

// scoreAll attaches source weights and computes preference-weighted scores.
// Sorting is stable so equal scores keep emission order and output stays
// deterministic.
func scoreAll(preference int, farming, marketRecs, weatherRecs []agri.RecommendationItem) ([]agri.ScoredRecommendation, error) {
	ws := float64(preference) / 10
	we := 1 - ws

	var scored []agri.ScoredRecommendation
	add := func(items []agri.RecommendationItem, sourceWeight float64) error {
		for _, item := range items {
			if item.Confidence < 0 || item.Confidence > 1 {
				return fmt.Errorf("%w: confidence %.3f outside [0,1] for %q",
					agri.ErrInvariant, item.Confidence, item.Focus)
			}
			scored = append(scored, agri.ScoredRecommendation{
				RecommendationItem: item,
				SourceWeight:       sourceWeight,
				Score: (item.SustainabilityImpact*ws + item.EconomicImpact*we) *
					item.Confidence * sourceWeight,
			})
		}
		return nil
	}

	if err := add(farming, weightFarming); err != nil {
		return nil, err
	}
	if err := add(marketRecs, weightMarket); err != nil {
		return nil, err
	}
	if err := add(weatherRecs, weightWeather); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// summarize projects the sustainability headroom of the ranked actions.
// potentialScore never exceeds 100 and never drops below the current score;
// a zero current score yields a zero improvement percentage rather than a
// division blowup.
func summarize(current float64, top []agri.ScoredRecommendation) agri.SustainabilitySummary {
	var improvement float64
	for _, rec := range top {
		improvement += rec.SustainabilityImpact
	}
	improvement *= 0.2

	potential := current + improvement
	if potential > 100 {
		potential = 100
	}
	pct := 0.0
	if current > 0 {
		pct = improvement / current * 100
	}
	return agri.SustainabilitySummary{
		CurrentScore:          current,
		PotentialScore:        potential,
		ImprovementPercentage: pct,
	}
}

func (e *Engine) enrich(ctx context.Context, report *Report, forecast []weather.Sample, region string) {
	if !e.llm.Enabled() {
		return
	}
	enr := &Enrichment{}

	if text, err := llm.ParcelNarrative(ctx, e.llm, report.Parcel); err == nil {
		enr.ParcelNarrative = text
	} else if errors.Is(err, agri.ErrUpstreamUnavailable) {
		slog.Debug("parcel enrichment skipped", "error", err)
	}

	if records, err := e.repo.MarketRecords(report.Parcel.CropType); err == nil && len(records) > 0 {
		if analysis, err := market.AnalyzeProduct(records, market.HorizonShort); err == nil {
			if text, err := llm.MarketNarrative(ctx, e.llm, analysis.Product, analysis.AvgPrice, string(analysis.Status)); err == nil {
				enr.MarketNarrative = text
			}
		}
	}

	if text, err := llm.WeatherNarrative(ctx, e.llm, region, forecast[:min(7, len(forecast))]); err == nil {
		enr.WeatherNarrative = text
	}

	if *enr != (Enrichment{}) {
		report.Enrichment = enr
	}
}

func clampPreference(p int) int {
	if p < 1 {
		return 1
	}
	if p > 10 {
		return 10
	}
	return p
}

// ParcelSnapshot is the soil and climate read on measurements for a parcel
// that is not yet registered in the repository.
type ParcelSnapshot struct {
	Soil    advisor.SoilAnalysis    `json:"soil_analysis"`
	Climate advisor.ClimateAnalysis `json:"climate_analysis"`
}

// AnalyzeParcel classifies raw measurements without touching the repository.
func (e *Engine) AnalyzeParcel(soilPH, soilMoisture, temperatureC, rainfallMM float64) ParcelSnapshot {
	return ParcelSnapshot{
		Soil:    advisor.AnalyzeSoil(soilPH, soilMoisture),
		Climate: advisor.AnalyzeClimate(temperatureC, rainfallMM),
	}
}

// SustainabilityComparison aggregates sustainability scores and input
// efficiencies across the whole fleet, optionally narrowed to one crop.
func (e *Engine) SustainabilityComparison(cropFilter string) (advisor.Comparison, error) {
	parcels, err := e.repo.Parcels(cropFilter)
	if err != nil {
		return advisor.Comparison{}, fmt.Errorf("fetch parcels: %w", err)
	}
	return advisor.Compare(parcels, cropFilter)
}

// MarketOverview ranks all products by profit potential.
func (e *Engine) MarketOverview(horizon market.Horizon) (market.OverviewReport, error) {
	records, err := e.repo.MarketRecords("")
	if err != nil {
		return market.OverviewReport{}, fmt.Errorf("fetch market records: %w", err)
	}
	return market.Overview(records, horizon)
}

// MarketForProduct runs the full market analysis for one product.
func (e *Engine) MarketForProduct(product string, horizon market.Horizon) (market.ProductAnalysis, error) {
	records, err := e.repo.MarketRecords(product)
	if err != nil {
		return market.ProductAnalysis{}, fmt.Errorf("fetch market records: %w", err)
	}
	if len(records) == 0 {
		return market.ProductAnalysis{}, fmt.Errorf("%w: no market data for %q", agri.ErrNotFound, product)
	}
	return market.AnalyzeProduct(records, horizon)
}

// WeatherReport bundles the weather view for one region.
type WeatherReport struct {
	Region     string           `json:"region"`
	Current    weather.Sample   `json:"current_weather"`
	Forecast   []weather.Sample `json:"forecast"`
	Historical []weather.Sample `json:"historical_data,omitempty"`
	Impact     weather.Impact   `json:"agricultural_impact"`
}

// WeatherForRegion generates current conditions, a forecast, the derived
// agricultural impact, and optionally 30 days of historical backfill.
func (e *Engine) WeatherForRegion(region string, forecastDays int, includeHistorical bool) (WeatherReport, error) {
	current, err := e.sim.Current(region)
	if err != nil {
		return WeatherReport{}, err
	}
	forecast, err := e.sim.Forecast(region, forecastDays)
	if err != nil {
		return WeatherReport{}, err
	}

	report := WeatherReport{
		Region:   region,
		Current:  current,
		Forecast: forecast,
		Impact:   weather.AssessImpact(forecast, current.Season),
	}
	if includeHistorical {
		// Zero anchor: backfill ends yesterday, never overlapping Current.
		historical, err := e.sim.Historical(region, 30, time.Time{})
		if err != nil {
			return WeatherReport{}, err
		}
		report.Historical = historical
	}
	return report, nil
}
