package weather

import (
	"fmt"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/season"
)

// ImpactLevel classifies one axis of agricultural impact.
type ImpactLevel string

const (
	ImpactNegative ImpactLevel = "negative"
	ImpactNeutral  ImpactLevel = "neutral"
	ImpactPositive ImpactLevel = "positive"
	ImpactUnknown  ImpactLevel = "unknown"
)

// Impact is the agricultural read on a forecast: per-axis classifications,
// the derived overall level, and mitigation recommendations.
type Impact struct {
	Temperature     ImpactLevel               `json:"temperature_impact"`
	Rainfall        ImpactLevel               `json:"rainfall_impact"`
	Overall         ImpactLevel               `json:"overall_impact"`
	Recommendations []agri.RecommendationItem `json:"recommendations"`
}

// AssessImpact classifies a forecast's agricultural impact. Pure function of
// the samples plus the current season (for the one generic guidance item).
// An empty forecast yields unknown impact and no recommendations.
func AssessImpact(forecast []Sample, current season.Season) Impact {
	if len(forecast) == 0 {
		return Impact{Temperature: ImpactUnknown, Rainfall: ImpactUnknown, Overall: ImpactUnknown}
	}

	var sumHigh, totalRain float64
	for _, day := range forecast {
		sumHigh += day.TempHighC
		totalRain += day.RainfallMM
	}
	meanHigh := sumHigh / float64(len(forecast))

	impact := Impact{Temperature: ImpactNeutral, Rainfall: ImpactNeutral, Overall: ImpactNeutral}

	switch {
	case meanHigh > 30:
		impact.Temperature = ImpactNegative
		impact.Recommendations = append(impact.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryWeatherManagement,
			Focus:                "High temperatures forecasted",
			Action:               "Implement shade structures and increase irrigation frequency",
			SustainabilityImpact: 1.8,
			Confidence:           0.8,
		})
	case meanHigh < 10:
		impact.Temperature = ImpactNegative
		impact.Recommendations = append(impact.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryWeatherManagement,
			Focus:                "Low temperatures forecasted",
			Action:               "Consider using crop covers or delaying planting",
			SustainabilityImpact: 1.5,
			Confidence:           0.8,
		})
	case meanHigh >= 15 && meanHigh <= 28:
		impact.Temperature = ImpactPositive
	}

	switch {
	case totalRain < 10:
		impact.Rainfall = ImpactNegative
		impact.Recommendations = append(impact.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryWeatherManagement,
			Focus:                "Low rainfall forecasted",
			Action:               "Implement water conservation techniques and drip irrigation",
			SustainabilityImpact: 2.2,
			Confidence:           0.85,
		})
	case totalRain > 100:
		impact.Rainfall = ImpactNegative
		impact.Recommendations = append(impact.Recommendations, agri.RecommendationItem{
			Category:             agri.CategoryWeatherManagement,
			Focus:                "High rainfall forecasted",
			Action:               "Ensure proper drainage and consider delayed planting",
			SustainabilityImpact: 1.7,
			Confidence:           0.8,
		})
	case totalRain >= 20 && totalRain <= 60:
		impact.Rainfall = ImpactPositive
	}

	// One mitigation item per extreme day, in forecast order.
	for _, day := range forecast {
		switch day.Condition {
		case ConditionDrought:
			impact.Recommendations = append(impact.Recommendations, agri.RecommendationItem{
				Category:             agri.CategoryWeatherManagement,
				Focus:                fmt.Sprintf("Drought conditions forecasted on %s", day.Date.Format("2006-01-02")),
				Action:               "Implement emergency water conservation measures and consider drought-resistant crops",
				SustainabilityImpact: 2.5,
				Confidence:           0.7,
			})
		case ConditionFlood:
			impact.Recommendations = append(impact.Recommendations, agri.RecommendationItem{
				Category:             agri.CategoryWeatherManagement,
				Focus:                fmt.Sprintf("Flood warning for %s", day.Date.Format("2006-01-02")),
				Action:               "Prepare flood defenses and ensure drainage systems are clear",
				SustainabilityImpact: 2.0,
				Confidence:           0.7,
			})
		}
	}

	if impact.Temperature == ImpactNegative || impact.Rainfall == ImpactNegative {
		impact.Overall = ImpactNegative
	} else if impact.Temperature == ImpactPositive && impact.Rainfall == ImpactPositive {
		impact.Overall = ImpactPositive
	}

	impact.Recommendations = append(impact.Recommendations, seasonGuidance(current))
	return impact
}

func seasonGuidance(s season.Season) agri.RecommendationItem {
	switch s {
	case season.Spring:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Spring planting considerations",
			Action:               "Ensure soil has proper temperature and moisture before planting to optimize germination",
			SustainabilityImpact: 1.5,
			Confidence:           0.9,
		}
	case season.Summer:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Summer heat management",
			Action:               "Monitor soil moisture levels closely and implement shading or mulching to reduce evaporation",
			SustainabilityImpact: 1.8,
			Confidence:           0.85,
		}
	case season.Fall:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Fall harvest timing",
			Action:               "Monitor forecasts for early frost and plan harvest accordingly",
			SustainabilityImpact: 1.6,
			Confidence:           0.8,
		}
	default:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Winter soil management",
			Action:               "Consider cover crops to protect soil from erosion and improve structure",
			SustainabilityImpact: 2.0,
			Confidence:           0.85,
		}
	}
}

// Recommendations turns a 14-day forecast into weather-driven action items:
// short-term management from the first week (confidence fades with forecast
// distance), seasonal planning for the current and next season, and water
// management from the two-week mean rainfall. Emission order is stable so
// downstream tie-breaking stays deterministic.
func Recommendations(forecast []Sample, current season.Season) []agri.RecommendationItem {
	var items []agri.RecommendationItem

	// Short-term: scan the next 7 days, keep at most 3 triggers.
	shortTerm := 0
	for i, day := range forecast {
		if i >= 7 || shortTerm >= 3 {
			break
		}
		switch {
		case day.Condition == ConditionHeavy || day.Condition == ConditionFlood:
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryWeatherManagement,
				Focus:                fmt.Sprintf("Heavy Rain Management: Day %d", i+1),
				Action:               "Ensure proper drainage and avoid field operations to prevent soil compaction",
				SustainabilityImpact: 1.8,
				Confidence:           0.85 - float64(i)*0.05,
			})
			shortTerm++
		case (day.Condition == ConditionDrought || day.Condition == ConditionHot) && day.RainfallMM < 2:
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryWeatherManagement,
				Focus:                fmt.Sprintf("Drought Management: Day %d", i+1),
				Action:               "Schedule irrigation for early morning to minimize evaporation",
				SustainabilityImpact: 2.0,
				Confidence:           0.85 - float64(i)*0.05,
			})
			shortTerm++
		}
	}

	// Seasonal planning: current season plus preparation for the next.
	items = append(items, currentSeasonPlan(current))
	next := season.Next(current)
	items = append(items, agri.RecommendationItem{
		Category:             agri.CategorySeasonalPlanning,
		Focus:                fmt.Sprintf("%s preparation", titleSeason(next)),
		Action:               fmt.Sprintf("Begin preparing for %s conditions by reviewing expected weather patterns and adjusting plans accordingly", next),
		SustainabilityImpact: 1.5,
		Confidence:           0.8,
	})

	// Water management from the mean daily rainfall across the window.
	if len(forecast) > 0 {
		var total float64
		for _, day := range forecast {
			total += day.RainfallMM
		}
		mean := total / float64(len(forecast))
		if mean < 3 {
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryWeatherManagement,
				Focus:                "Drought Mitigation",
				Action:               "Implement rainwater harvesting systems and water-efficient irrigation methods such as drip irrigation",
				SustainabilityImpact: 2.3,
				Confidence:           0.8,
			})
		} else if mean > 7 {
			items = append(items, agri.RecommendationItem{
				Category:             agri.CategoryWeatherManagement,
				Focus:                "Excess Water Management",
				Action:               "Ensure proper drainage systems are in place and consider raised beds for water-sensitive crops",
				SustainabilityImpact: 1.8,
				Confidence:           0.8,
			})
		}
	}
	items = append(items, agri.RecommendationItem{
		Category:             agri.CategoryWeatherManagement,
		Focus:                "Water Conservation",
		Action:               "Install soil moisture sensors to optimize irrigation scheduling and prevent over-watering",
		SustainabilityImpact: 2.0,
		Confidence:           0.9,
	})

	return items
}

func currentSeasonPlan(s season.Season) agri.RecommendationItem {
	switch s {
	case season.Spring:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Spring Planting",
			Action:               "Monitor soil temperature and moisture daily; wait for soil to warm sufficiently before planting",
			SustainabilityImpact: 1.6,
			Confidence:           0.9,
		}
	case season.Summer:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Summer Heat Management",
			Action:               "Implement mulching to conserve soil moisture and reduce irrigation needs",
			SustainabilityImpact: 1.9,
			Confidence:           0.85,
		}
	case season.Fall:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Fall Preparations",
			Action:               "Plan cover crop planting to protect soil through winter and improve fertility",
			SustainabilityImpact: 2.1,
			Confidence:           0.9,
		}
	default:
		return agri.RecommendationItem{
			Category:             agri.CategorySeasonalPlanning,
			Focus:                "Winter Planning",
			Action:               "Use this time for soil testing and planning crop rotations for next growing season",
			SustainabilityImpact: 1.7,
			Confidence:           0.9,
		}
	}
}

func titleSeason(s season.Season) string {
	if len(s) == 0 {
		return ""
	}
	return string(s[0]-'a'+'A') + string(s[1:])
}
