package advisor

import (
	"fmt"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

// CohortBenchmarks are the mean resource figures across parcels growing the
// same crop.
type CohortBenchmarks struct {
	AvgFertilizerKG       float64 `json:"avg_fertilizer_usage_kg"`
	AvgPesticideKG        float64 `json:"avg_pesticide_usage_kg"`
	AvgYieldTons          float64 `json:"avg_crop_yield_ton"`
	AvgSustainability     float64 `json:"avg_sustainability_score"`
	CohortSize            int     `json:"cohort_size"`
	AvgFertilizerPerYield float64 `json:"avg_fertilizer_efficiency"`
	AvgPesticidePerYield  float64 `json:"avg_pesticide_efficiency"`
}

// EfficiencyMetrics express a parcel's yield per unit of input, and the
// percentage deviation from the cohort average.
type EfficiencyMetrics struct {
	FertilizerEfficiency float64 `json:"fertilizer_efficiency"`
	PesticideEfficiency  float64 `json:"pesticide_efficiency"`
	VsAvgFertilizerPct   float64 `json:"vs_avg_fertilizer_efficiency"`
	VsAvgPesticidePct    float64 `json:"vs_avg_pesticide_efficiency"`
}

// PracticeAnalysis compares a parcel's resource usage against its crop cohort.
type PracticeAnalysis struct {
	Benchmarks      CohortBenchmarks          `json:"benchmarks"`
	Efficiency      EfficiencyMetrics         `json:"efficiency_metrics"`
	Recommendations []agri.RecommendationItem `json:"recommendations"`
}

// Benchmark compares parcel against every record in all sharing its crop
// type. Returns agri.ErrInsufficientData (wrapped) when the cohort is empty;
// synthesis recovers by carrying a tagged partial result rather than failing.
func Benchmark(parcel agri.ParcelRecord, all []agri.ParcelRecord) (PracticeAnalysis, error) {
	var cohort []agri.ParcelRecord
	for _, p := range all {
		if p.CropType == parcel.CropType {
			cohort = append(cohort, p)
		}
	}
	if len(cohort) == 0 {
		return PracticeAnalysis{}, fmt.Errorf("%w: no cohort peers grow %q", agri.ErrInsufficientData, parcel.CropType)
	}

	var sumFert, sumPest, sumYield, sumSust float64
	for _, p := range cohort {
		sumFert += p.FertilizerKG
		sumPest += p.PesticideKG
		sumYield += p.YieldTons
		sumSust += p.SustainabilityScore
	}
	n := float64(len(cohort))
	bench := CohortBenchmarks{
		AvgFertilizerKG:   sumFert / n,
		AvgPesticideKG:    sumPest / n,
		AvgYieldTons:      sumYield / n,
		AvgSustainability: sumSust / n,
		CohortSize:        len(cohort),
	}
	bench.AvgFertilizerPerYield = safeRatio(bench.AvgYieldTons, bench.AvgFertilizerKG)
	bench.AvgPesticidePerYield = safeRatio(bench.AvgYieldTons, bench.AvgPesticideKG)

	eff := EfficiencyMetrics{
		FertilizerEfficiency: safeRatio(parcel.YieldTons, parcel.FertilizerKG),
		PesticideEfficiency:  safeRatio(parcel.YieldTons, parcel.PesticideKG),
	}
	if bench.AvgFertilizerPerYield != 0 {
		eff.VsAvgFertilizerPct = (eff.FertilizerEfficiency/bench.AvgFertilizerPerYield - 1) * 100
	}
	if bench.AvgPesticidePerYield != 0 {
		eff.VsAvgPesticidePct = (eff.PesticideEfficiency/bench.AvgPesticidePerYield - 1) * 100
	}

	var recs []agri.RecommendationItem
	if parcel.FertilizerKG > bench.AvgFertilizerKG*1.2 {
		recs = append(recs, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "High fertilizer usage",
			Action:               "Consider precision agriculture techniques to optimize fertilizer application",
			SustainabilityImpact: 2.0,
			EconomicImpact:       0.5,
			Confidence:           0.8,
		})
	}
	if parcel.PesticideKG > bench.AvgPesticideKG*1.2 {
		recs = append(recs, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "High pesticide usage",
			Action:               "Implement integrated pest management (IPM) techniques",
			SustainabilityImpact: 2.5,
			EconomicImpact:       0.3,
			Confidence:           0.8,
		})
	}
	if parcel.YieldTons < bench.AvgYieldTons*0.8 {
		recs = append(recs, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Below average crop yield",
			Action:               "Consider soil testing and targeted nutrient management",
			SustainabilityImpact: 1.0,
			EconomicImpact:       -0.2,
			Confidence:           0.75,
		})
	}

	return PracticeAnalysis{Benchmarks: bench, Efficiency: eff, Recommendations: recs}, nil
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
