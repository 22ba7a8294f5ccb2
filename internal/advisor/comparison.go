package advisor

import (
	"fmt"
	"sort"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

// ScoreStats summarize the sustainability spread across a set of parcels.
type ScoreStats struct {
	AvgScore float64 `json:"avg_sustainability_score"`
	MinScore float64 `json:"min_sustainability_score"`
	MaxScore float64 `json:"max_sustainability_score"`
	Count    int     `json:"count"`
}

// ParcelPractice is one parcel's sustainability and efficiency figures, used
// to surface the fleet's best performers.
type ParcelPractice struct {
	ParcelID             int64   `json:"parcel_id"`
	CropType             string  `json:"crop_type"`
	SustainabilityScore  float64 `json:"sustainability_score"`
	FertilizerEfficiency float64 `json:"fertilizer_efficiency"`
	PesticideEfficiency  float64 `json:"pesticide_efficiency"`
}

// CropScore is the per-crop sustainability aggregate.
type CropScore struct {
	CropType    string  `json:"crop_type"`
	AvgScore    float64 `json:"avg_sustainability_score"`
	ParcelCount int     `json:"parcel_count"`
}

// Comparison is the cross-parcel sustainability view: fleet score stats,
// mean input efficiencies, the five most sustainable parcels, and (when not
// filtered to one crop) a per-crop breakdown.
type Comparison struct {
	Stats          ScoreStats       `json:"sustainability_stats"`
	AvgFertilizerE float64          `json:"avg_fertilizer_efficiency"`
	AvgPesticideE  float64          `json:"avg_pesticide_efficiency"`
	BestPractices  []ParcelPractice `json:"best_practices"`
	CropComparison []CropScore      `json:"crop_comparison,omitempty"`
	CropFilter     string           `json:"crop_filter,omitempty"`
}

// Compare aggregates sustainability and efficiency across parcels. cropFilter
// is informational: callers pass the already-filtered set plus the filter they
// applied; an empty filter adds the per-crop breakdown. An empty set wraps
// agri.ErrInsufficientData.
func Compare(parcels []agri.ParcelRecord, cropFilter string) (Comparison, error) {
	if len(parcels) == 0 {
		if cropFilter != "" {
			return Comparison{}, fmt.Errorf("%w: no parcels grow %q", agri.ErrInsufficientData, cropFilter)
		}
		return Comparison{}, fmt.Errorf("%w: no parcels recorded", agri.ErrInsufficientData)
	}

	stats := ScoreStats{
		MinScore: parcels[0].SustainabilityScore,
		MaxScore: parcels[0].SustainabilityScore,
		Count:    len(parcels),
	}
	var sumScore, sumFertE, sumPestE float64
	practices := make([]ParcelPractice, 0, len(parcels))
	for _, p := range parcels {
		sumScore += p.SustainabilityScore
		if p.SustainabilityScore < stats.MinScore {
			stats.MinScore = p.SustainabilityScore
		}
		if p.SustainabilityScore > stats.MaxScore {
			stats.MaxScore = p.SustainabilityScore
		}

		fertE := safeRatio(p.YieldTons, p.FertilizerKG)
		pestE := safeRatio(p.YieldTons, p.PesticideKG)
		sumFertE += fertE
		sumPestE += pestE
		practices = append(practices, ParcelPractice{
			ParcelID:             p.ID,
			CropType:             p.CropType,
			SustainabilityScore:  p.SustainabilityScore,
			FertilizerEfficiency: fertE,
			PesticideEfficiency:  pestE,
		})
	}
	n := float64(len(parcels))
	stats.AvgScore = sumScore / n

	sort.SliceStable(practices, func(i, j int) bool {
		return practices[i].SustainabilityScore > practices[j].SustainabilityScore
	})
	if len(practices) > 5 {
		practices = practices[:5]
	}

	out := Comparison{
		Stats:          stats,
		AvgFertilizerE: sumFertE / n,
		AvgPesticideE:  sumPestE / n,
		BestPractices:  practices,
		CropFilter:     cropFilter,
	}
	if cropFilter == "" {
		out.CropComparison = compareCrops(parcels)
	}
	return out, nil
}

// compareCrops groups parcels by crop and ranks crops by mean sustainability,
// names breaking ties so output stays deterministic.
func compareCrops(parcels []agri.ParcelRecord) []CropScore {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, p := range parcels {
		sums[p.CropType] += p.SustainabilityScore
		counts[p.CropType]++
	}

	out := make([]CropScore, 0, len(sums))
	for crop, sum := range sums {
		out = append(out, CropScore{
			CropType:    crop,
			AvgScore:    sum / float64(counts[crop]),
			ParcelCount: counts[crop],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgScore != out[j].AvgScore {
			return out[i].AvgScore > out[j].AvgScore
		}
		return out[i].CropType < out[j].CropType
	})
	return out
}
