// Package advisor turns parcel measurements into soil, climate, and practice
// analyses. The classifiers are stateless rule ladders; the benchmark engine
// compares a parcel against its crop cohort.
package advisor

import "github.com/Kritansh-Tank/AgroInsight/internal/agri"

// SoilStatus classifies one soil axis.
type SoilStatus string

const (
	StatusAcidic   SoilStatus = "acidic"
	StatusAlkaline SoilStatus = "alkaline"
	StatusDry      SoilStatus = "dry"
	StatusWet      SoilStatus = "wet"
	StatusOptimal  SoilStatus = "optimal"
)

// ClimateBand classifies temperature or rainfall regimes.
type ClimateBand string

const (
	BandCool     ClimateBand = "cool"
	BandHot      ClimateBand = "hot"
	BandModerate ClimateBand = "moderate"
	BandLow      ClimateBand = "low"
	BandHigh     ClimateBand = "high"
)

// SoilAnalysis is the result of the pH/moisture rule ladder.
type SoilAnalysis struct {
	SoilPH          float64                   `json:"soil_ph"`
	SoilMoisture    float64                   `json:"soil_moisture"`
	PHStatus        SoilStatus                `json:"ph_status"`
	MoistureStatus  SoilStatus                `json:"moisture_status"`
	Recommendations []agri.RecommendationItem `json:"recommendations"`
}

// ClimateAnalysis is the result of the temperature/rainfall rule ladder.
type ClimateAnalysis struct {
	TemperatureC    float64                   `json:"temperature_c"`
	RainfallMM      float64                   `json:"rainfall_mm"`
	TempCategory    ClimateBand               `json:"temperature_category"`
	RainCategory    ClimateBand               `json:"rainfall_category"`
	SuitableCrops   []string                  `json:"suitable_crops"`
	Recommendations []agri.RecommendationItem `json:"recommendations"`
}

// AnalyzeSoil classifies pH and moisture independently. A parcel may trigger
// zero, one, or both amendment recommendations.
func AnalyzeSoil(soilPH, soilMoisture float64) SoilAnalysis {
	out := SoilAnalysis{SoilPH: soilPH, SoilMoisture: soilMoisture}

	switch {
	case soilPH < 5.5:
		out.PHStatus = StatusAcidic
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Low soil pH (acidic)",
			Action:               "Apply agricultural lime to raise pH",
			SustainabilityImpact: 1.5,
			EconomicImpact:       -0.8,
			Confidence:           0.8,
		})
	case soilPH > 7.5:
		out.PHStatus = StatusAlkaline
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "High soil pH (alkaline)",
			Action:               "Apply organic matter or elemental sulfur to lower pH",
			SustainabilityImpact: 1.2,
			EconomicImpact:       -0.5,
			Confidence:           0.8,
		})
	default:
		out.PHStatus = StatusOptimal
	}

	switch {
	case soilMoisture < 20:
		out.MoistureStatus = StatusDry
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Low soil moisture",
			Action:               "Implement drip irrigation system and mulching to conserve water",
			SustainabilityImpact: 2.0,
			EconomicImpact:       -1.2,
			Confidence:           0.85,
		})
	case soilMoisture > 40:
		out.MoistureStatus = StatusWet
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "High soil moisture",
			Action:               "Improve drainage and consider raised beds",
			SustainabilityImpact: 1.0,
			EconomicImpact:       -0.9,
			Confidence:           0.8,
		})
	default:
		out.MoistureStatus = StatusOptimal
	}

	return out
}

// AnalyzeClimate classifies temperature into a growing band with a suitable
// crop shortlist, and rainfall into a supply band with amendment actions.
func AnalyzeClimate(temperatureC, rainfallMM float64) ClimateAnalysis {
	out := ClimateAnalysis{TemperatureC: temperatureC, RainfallMM: rainfallMM}

	switch {
	case temperatureC < 18:
		out.TempCategory = BandCool
		out.SuitableCrops = []string{"Wheat", "Barley", "Oats"}
	case temperatureC > 30:
		out.TempCategory = BandHot
		out.SuitableCrops = []string{"Corn", "Sorghum", "Cotton"}
	default:
		out.TempCategory = BandModerate
		out.SuitableCrops = []string{"Rice", "Soybean", "Corn", "Wheat"}
	}

	switch {
	case rainfallMM < 100:
		out.RainCategory = BandLow
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Low rainfall",
			Action:               "Implement water harvesting and drought-resistant crops",
			SustainabilityImpact: 2.5,
			EconomicImpact:       -1.5,
			Confidence:           0.8,
		})
	case rainfallMM > 250:
		out.RainCategory = BandHigh
		out.Recommendations = append(out.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "High rainfall",
			Action:               "Ensure good drainage and consider raised beds",
			SustainabilityImpact: 1.0,
			EconomicImpact:       -0.7,
			Confidence:           0.8,
		})
	default:
		out.RainCategory = BandModerate
	}

	return out
}
