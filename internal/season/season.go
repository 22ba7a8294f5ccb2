// Package season maps calendar dates to the four growing seasons and carries
// the per-season climate modifiers the weather simulator applies on top of
// regional base parameters.
package season

import "time"

// Season is one of the four fixed season tags. The string values double as
// the seasonal-factor tags carried by market records.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
	Winter Season = "winter"
)

// Modifiers adjusts a region's base climate for one season.
type Modifiers struct {
	Temp     float64 `yaml:"temp_modifier"`     // added to base temp, scaled by region seasonal factor
	Rainfall float64 `yaml:"rainfall_modifier"` // multiplies base rainfall
	Humidity float64 `yaml:"humidity_modifier"` // multiplies the humidity baseline term
}

var modifiers = map[Season]Modifiers{
	Spring: {Temp: 0, Rainfall: 1.2, Humidity: 1.1},
	Summer: {Temp: 1.2, Rainfall: 0.8, Humidity: 0.9},
	Fall:   {Temp: 0, Rainfall: 1.0, Humidity: 1.0},
	Winter: {Temp: -1.2, Rainfall: 1.1, Humidity: 1.2},
}

// ForDate resolves the season covering the given date's month.
func ForDate(date time.Time) Season {
	switch date.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// ModifiersFor returns the climate modifiers for a season. Unknown tags fall
// back to spring, the mildest profile.
func ModifiersFor(s Season) Modifiers {
	if m, ok := modifiers[s]; ok {
		return m
	}
	return modifiers[Spring]
}

// Next returns the season following s in calendar order.
func Next(s Season) Season {
	switch s {
	case Spring:
		return Summer
	case Summer:
		return Fall
	case Fall:
		return Winter
	default:
		return Spring
	}
}

// All lists the seasons in calendar order.
func All() []Season {
	return []Season{Spring, Summer, Fall, Winter}
}

// Valid reports whether s is one of the four known tags.
func Valid(s Season) bool {
	_, ok := modifiers[s]
	return ok
}
