// Package weather simulates regional weather: current conditions, trend-
// persistent forecasts, and historical backfill. All randomness flows through
// an explicit entropy.Source so runs are reproducible from a seed.
package weather

import (
	"fmt"
	"time"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/entropy"
	"github.com/Kritansh-Tank/AgroInsight/internal/season"
)

// Condition is the closed set of daily weather tags.
type Condition string

const (
	ConditionClear   Condition = "Clear"
	ConditionHot     Condition = "Hot"
	ConditionCold    Condition = "Cold"
	ConditionLight   Condition = "Light Rain"
	ConditionHeavy   Condition = "Heavy Rain"
	ConditionDrought Condition = "Drought Conditions"
	ConditionFlood   Condition = "Flood Warning"
)

// Extreme reports whether the condition is a drought or flood override.
func (c Condition) Extreme() bool {
	return c == ConditionDrought || c == ConditionFlood
}

// RegionParams are the fixed climate parameters of one named region.
type RegionParams struct {
	BaseTemp       float64 `yaml:"base_temp"`      // Celsius
	TempVariation  float64 `yaml:"temp_variation"` // daily swing amplitude
	BaseRainfall   float64 `yaml:"base_rainfall"`  // mm
	RainVariation  float64 `yaml:"rain_variation"`
	SeasonalFactor float64 `yaml:"seasonal_factor"` // how strongly seasons bite
	DroughtProb    float64 `yaml:"drought_probability"`
	FloodProb      float64 `yaml:"flood_probability"`
}

// DefaultRegions returns the built-in north/central/south climate set.
func DefaultRegions() map[string]RegionParams {
	return map[string]RegionParams{
		"north": {
			BaseTemp: 15, TempVariation: 8,
			BaseRainfall: 5, RainVariation: 15,
			SeasonalFactor: 0.8, DroughtProb: 0.05, FloodProb: 0.05,
		},
		"central": {
			BaseTemp: 22, TempVariation: 6,
			BaseRainfall: 3, RainVariation: 10,
			SeasonalFactor: 0.6, DroughtProb: 0.08, FloodProb: 0.03,
		},
		"south": {
			BaseTemp: 28, TempVariation: 5,
			BaseRainfall: 2, RainVariation: 8,
			SeasonalFactor: 0.5, DroughtProb: 0.12, FloodProb: 0.02,
		},
	}
}

// Sample is one day of simulated weather.
type Sample struct {
	Date        time.Time     `json:"date"`
	Season      season.Season `json:"season"`
	TempC       float64       `json:"temperature_c"`
	TempHighC   float64       `json:"temperature_high_c"`
	TempLowC    float64       `json:"temperature_low_c"`
	RainfallMM  float64       `json:"rainfall_mm"`
	HumidityPct float64       `json:"humidity_percent"`
	WindKPH     float64       `json:"wind_speed_kph"`
	Condition   Condition     `json:"condition"`
}

// Simulator generates weather for a fixed set of regions. One shared entropy
// source serializes draws, so concurrent callers keep the reproducibility
// contract; callers that don't need it can give each simulator its own
// randomly-seeded source.
type Simulator struct {
	regions map[string]RegionParams
	rng     *entropy.Source
	now     func() time.Time
}

// NewSimulator builds a simulator over the given regions and random source.
// Nil regions selects the defaults.
func NewSimulator(regions map[string]RegionParams, rng *entropy.Source) *Simulator {
	if regions == nil {
		regions = DefaultRegions()
	}
	return &Simulator{regions: regions, rng: rng, now: time.Now}
}

// WithClock overrides the wall clock, for tests.
func (s *Simulator) WithClock(now func() time.Time) *Simulator {
	s.now = now
	return s
}

// Today returns the simulator's current date. Callers that need the present
// season derive it from this rather than from forecast samples, which start
// tomorrow.
func (s *Simulator) Today() time.Time {
	return s.now()
}

// Regions lists the known region names.
func (s *Simulator) Regions() []string {
	names := make([]string, 0, len(s.regions))
	for name := range s.regions {
		names = append(names, name)
	}
	return names
}

func (s *Simulator) params(region string) (RegionParams, error) {
	p, ok := s.regions[region]
	if !ok {
		return RegionParams{}, fmt.Errorf("%w: unknown region %q", agri.ErrNotFound, region)
	}
	return p, nil
}

// humidityBase is the pre-noise humidity level for a season.
func humidityBase(mods season.Modifiers) float64 {
	return 60 + 20*mods.Humidity
}

// Current generates the present-day conditions for a region.
func (s *Simulator) Current(region string) (Sample, error) {
	p, err := s.params(region)
	if err != nil {
		return Sample{}, err
	}
	return s.independentDay(p, s.now()), nil
}

// Forecast generates days consecutive samples starting tomorrow, in ascending
// date order. Temperature and rainfall trends persist across days by
// exponential smoothing: temperature decays slowly (0.5), rainfall fast (0.3)
// because rain is burstier. Each day independently rolls the region's drought
// and flood probabilities; a hit overrides that day's values and condition.
func (s *Simulator) Forecast(region string, days int) ([]Sample, error) {
	p, err := s.params(region)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: forecast days must be positive, got %d", agri.ErrInvalidRange, days)
	}

	out := make([]Sample, 0, days)
	tempTrend, rainTrend := 0.0, 0.0

	for day := 1; day <= days; day++ {
		date := s.now().AddDate(0, 0, day)
		sn := season.ForDate(date)
		mods := season.ModifiersFor(sn)

		tempTrend = tempTrend*0.5 + s.rng.Signed()*0.5
		tempBase := p.BaseTemp + mods.Temp*p.SeasonalFactor
		tempVar := p.TempVariation * (0.8 + 0.4*s.rng.Float())
		temperature := tempBase + tempTrend*tempVar

		rainTrend = rainTrend*0.3 + s.rng.Signed()*0.7
		rainBase := p.BaseRainfall * mods.Rainfall
		rainfall := rainBase + rainTrend*p.RainVariation
		if rainfall < 0 {
			rainfall = 0
		}

		var condition Condition
		if s.rng.Float() < p.DroughtProb {
			rainfall = 0
			temperature += 3
			condition = ConditionDrought
		} else if s.rng.Float() < p.FloodProb {
			rainfall = p.RainVariation * 2
			condition = ConditionFlood
		} else {
			condition = classify(p, temperature, rainfall)
		}

		out = append(out, Sample{
			Date:        date,
			Season:      sn,
			TempC:       temperature,
			TempHighC:   temperature + tempVar/2,
			TempLowC:    temperature - tempVar/2,
			RainfallMM:  rainfall,
			HumidityPct: humidityBase(mods) + rainTrend*10,
			WindKPH:     5 + s.rng.Float()*15,
			Condition:   condition,
		})
	}
	return out, nil
}

// Historical backfills days samples ending at anchor (or yesterday when the
// anchor is zero), most recent first. Days are independent: backfill has no
// trend carry-over to persist.
func (s *Simulator) Historical(region string, days int, anchor time.Time) ([]Sample, error) {
	p, err := s.params(region)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: historical days must be positive, got %d", agri.ErrInvalidRange, days)
	}
	if anchor.IsZero() {
		anchor = s.now().AddDate(0, 0, -1)
	}

	out := make([]Sample, 0, days)
	for day := 0; day < days; day++ {
		out = append(out, s.independentDay(p, anchor.AddDate(0, 0, -day)))
	}
	return out, nil
}

// independentDay samples one trend-free day: uniform temperature within a
// randomized-width band around the season-adjusted base, multiplicative
// rainfall with a 60% drier-than-base damping event, uniform humidity noise
// and wind.
func (s *Simulator) independentDay(p RegionParams, date time.Time) Sample {
	sn := season.ForDate(date)
	mods := season.ModifiersFor(sn)

	tempBase := p.BaseTemp + mods.Temp*p.SeasonalFactor
	tempVar := p.TempVariation * (0.8 + 0.4*s.rng.Float())
	temperature := tempBase + s.rng.Signed()*tempVar

	rainBase := p.BaseRainfall * mods.Rainfall
	rainfall := s.rng.Float() * p.RainVariation * rainBase
	if s.rng.Float() < 0.6 {
		rainfall *= 0.3
	}

	return Sample{
		Date:        date,
		Season:      sn,
		TempC:       temperature,
		TempHighC:   temperature + tempVar/2,
		TempLowC:    temperature - tempVar/2,
		RainfallMM:  rainfall,
		HumidityPct: humidityBase(mods) + s.rng.Range(-10, 10),
		WindKPH:     5 + s.rng.Float()*15,
		Condition:   classify(p, temperature, rainfall),
	}
}

// classify runs the fixed threshold ladder. Drought/flood overrides pre-empt
// it at the call sites.
func classify(p RegionParams, temperature, rainfall float64) Condition {
	switch {
	case rainfall > p.RainVariation:
		return ConditionHeavy
	case rainfall > p.RainVariation/2:
		return ConditionLight
	case temperature > p.BaseTemp+p.TempVariation:
		return ConditionHot
	case temperature < p.BaseTemp-p.TempVariation:
		return ConditionCold
	default:
		return ConditionClear
	}
}
