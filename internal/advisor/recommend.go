package advisor

import "github.com/Kritansh-Tank/AgroInsight/internal/agri"

// GenerateRecommendations produces the farming-side action list for one
// parcel: crop selection, then resource optimization, then sustainable
// practices. Emission order is stable; downstream ranking relies on it for
// deterministic tie-breaking.
func GenerateRecommendations(parcel agri.ParcelRecord, pref int) []agri.RecommendationItem {
	items := CropRecommendations(parcel, pref)
	items = append(items, ResourceRecommendations(parcel)...)
	items = append(items, PracticeRecommendations(pref)...)
	return items
}

// CropRecommendations suggests crops matched to the parcel's soil and
// climate. The rules are independent guards over pH, moisture, temperature,
// and rainfall.
func CropRecommendations(parcel agri.ParcelRecord, pref int) []agri.RecommendationItem {
	var items []agri.RecommendationItem

	switch {
	case parcel.SoilPH < 6.0:
		if parcel.TemperatureC < 25 && parcel.RainfallMM > 200 {
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryCropSelection,
				Focus:                "Rice",
				Action:               "Consider planting Rice which performs well in acidic soils with high rainfall",
				SustainabilityImpact: 1.5,
				EconomicImpact:       1.8,
				Confidence:           0.8,
			})
		}
	case parcel.SoilPH <= 7.0:
		if parcel.SoilMoisture > 30 {
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryCropSelection,
				Focus:                "Corn",
				Action:               "Consider planting Corn which performs well in neutral soils with good moisture",
				SustainabilityImpact: 1.7,
				EconomicImpact:       2.0,
				Confidence:           0.85,
			})
		} else {
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryCropSelection,
				Focus:                "Wheat",
				Action:               "Consider planting Wheat which performs well in neutral soils with moderate moisture",
				SustainabilityImpact: 1.8,
				EconomicImpact:       1.6,
				Confidence:           0.8,
			})
		}
	default: // pH > 7.0
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategoryCropSelection,
			Focus:                "Soybean",
			Action:               "Consider planting Soybean which can perform well in slightly alkaline soils",
			SustainabilityImpact: 2.0,
			EconomicImpact:       1.7,
			Confidence:           0.75,
		})
	}

	if pref > 7 {
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategoryCropSelection,
			Focus:                "Crop Rotation",
			Action:               "Implement a crop rotation system including nitrogen-fixing legumes to improve soil health",
			SustainabilityImpact: 2.5,
			EconomicImpact:       1.0,
			Confidence:           0.9,
		})
	}
	return items
}

// ResourceRecommendations targets water, fertilizer, and pesticide usage.
// Soil health management is recommended for every parcel.
func ResourceRecommendations(parcel agri.ParcelRecord) []agri.RecommendationItem {
	var items []agri.RecommendationItem

	if parcel.RainfallMM < 150 {
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Water",
			Action:               "Implement drip irrigation and rainwater harvesting to optimize water usage",
			SustainabilityImpact: 2.2,
			EconomicImpact:       0.8,
			Confidence:           0.85,
		})
	}
	if parcel.FertilizerKG > 120 {
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Fertilizer",
			Action:               "Implement precision agriculture techniques for targeted fertilizer application",
			SustainabilityImpact: 2.0,
			EconomicImpact:       1.2,
			Confidence:           0.8,
		})
	}
	if parcel.PesticideKG > 10 {
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategoryResourceOptimize,
			Focus:                "Pesticides",
			Action:               "Adopt integrated pest management (IPM) to reduce chemical pesticide usage",
			SustainabilityImpact: 2.5,
			EconomicImpact:       0.9,
			Confidence:           0.85,
		})
	}
	items = append(items, agri.RecommendationItem{
		Category:             agri.CategoryResourceOptimize,
		Focus:                "Soil",
		Action:               "Implement cover cropping and minimal tillage to improve soil health and reduce erosion",
		SustainabilityImpact: 2.3,
		EconomicImpact:       1.0,
		Confidence:           0.9,
	})
	return items
}

// PracticeRecommendations lists sustainable practices, escalating with the
// farmer's stated sustainability preference.
func PracticeRecommendations(pref int) []agri.RecommendationItem {
	items := []agri.RecommendationItem{
		{
			Category:             agri.CategorySustainablePractice,
			Focus:                "Soil Testing",
			Action:               "Conduct regular soil testing to optimize inputs and reduce waste",
			SustainabilityImpact: 1.8,
			EconomicImpact:       1.5,
			Confidence:           0.9,
		},
		{
			Category:             agri.CategorySustainablePractice,
			Focus:                "Organic Matter",
			Action:               "Increase soil organic matter through compost application and crop residue management",
			SustainabilityImpact: 2.0,
			EconomicImpact:       0.9,
			Confidence:           0.85,
		},
	}
	if pref > 5 {
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategorySustainablePractice,
			Focus:                "Biodiversity",
			Action:               "Maintain field margins and hedgerows to promote biodiversity and natural pest control",
			SustainabilityImpact: 2.2,
			EconomicImpact:       0.5,
			Confidence:           0.8,
		})
	}
	if pref > 8 {
		items = append(items, agri.RecommendationItem{
			Category:             agri.CategorySustainablePractice,
			Focus:                "Renewable Energy",
			Action:               "Consider installing solar panels or wind turbines to power farm operations",
			SustainabilityImpact: 2.5,
			EconomicImpact:       -0.5, // up-front capital outlay
			Confidence:           0.75,
		})
	}
	return items
}
