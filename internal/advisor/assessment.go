package advisor

import (
	"errors"
	"sort"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

// SustainabilityBand buckets a parcel's sustainability score.
type SustainabilityBand string

const (
	BandPoor SustainabilityBand = "poor"
	BandFair SustainabilityBand = "moderate"
	BandGood SustainabilityBand = "good"
)

// OverallAssessment merges every sub-analysis into a band, an improvement
// outlook, and the top-priority actions.
type OverallAssessment struct {
	SustainabilityBand   SustainabilityBand        `json:"sustainability_category"`
	ImprovementPotential string                    `json:"improvement_potential"`
	HighPriority         []agri.RecommendationItem `json:"high_priority_recommendations"`
	Message              string                    `json:"overall_message"`
}

// Analysis is the full read on one parcel: soil, climate, cohort practice
// comparison, and the merged assessment. PracticeDataMissing is set when the
// benchmark had no cohort peers; the rest of the analysis still stands.
type Analysis struct {
	Soil                SoilAnalysis      `json:"soil_analysis"`
	Climate             ClimateAnalysis   `json:"climate_analysis"`
	Practice            PracticeAnalysis  `json:"practice_analysis"`
	PracticeDataMissing bool              `json:"practice_data_missing"`
	SustainabilityScore float64           `json:"sustainability_score"`
	Overall             OverallAssessment `json:"overall_assessment"`
}

// Analyze runs the soil, climate, and benchmark engines over one parcel and
// merges the results. Benchmark gaps degrade to a tagged partial result.
func Analyze(parcel agri.ParcelRecord, all []agri.ParcelRecord) Analysis {
	a := Analysis{
		Soil:                AnalyzeSoil(parcel.SoilPH, parcel.SoilMoisture),
		Climate:             AnalyzeClimate(parcel.TemperatureC, parcel.RainfallMM),
		SustainabilityScore: parcel.SustainabilityScore,
	}

	practice, err := Benchmark(parcel, all)
	if err != nil {
		if !errors.Is(err, agri.ErrInsufficientData) {
			// Benchmark only fails for missing cohorts today; anything
			// else would be a programming error worth surfacing loudly.
			panic(err)
		}
		a.PracticeDataMissing = true
	} else {
		a.Practice = practice
	}

	a.Overall = assess(a.Soil, a.Climate, a.Practice, parcel.SustainabilityScore)
	return a
}

// assess merges all recommendation items, keeps the top 3 by sustainability
// impact as high priority, and bands the parcel by fixed score cut-points.
func assess(soil SoilAnalysis, climate ClimateAnalysis, practice PracticeAnalysis, score float64) OverallAssessment {
	var merged []agri.RecommendationItem
	merged = append(merged, soil.Recommendations...)
	merged = append(merged, climate.Recommendations...)
	merged = append(merged, practice.Recommendations...)

	// Stable keeps emission order for equal impacts, so output is
	// deterministic.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SustainabilityImpact > merged[j].SustainabilityImpact
	})
	if len(merged) > 3 {
		merged = merged[:3]
	}

	out := OverallAssessment{HighPriority: merged}
	switch {
	case score < 30:
		out.SustainabilityBand = BandPoor
		out.ImprovementPotential = "high"
		out.Message = "Your farm's sustainability score needs significant improvement. " +
			"Implementing our high-priority recommendations could substantially " +
			"increase your sustainability while potentially reducing costs over time."
	case score < 60:
		out.SustainabilityBand = BandFair
		out.ImprovementPotential = "medium"
		out.Message = "Your farm has a moderate sustainability score. With targeted improvements " +
			"in resource management and sustainable practices, you can enhance both " +
			"sustainability and productivity."
	default:
		out.SustainabilityBand = BandGood
		out.ImprovementPotential = "low"
		out.Message = "Your farm shows good sustainability practices. Continue to optimize " +
			"and consider the recommended refinements to maintain your positive " +
			"environmental impact and potentially improve efficiency further."
	}
	return out
}
