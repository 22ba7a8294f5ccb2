// Narrative enrichment prompts. Output is supplementary prose only — it is
// never substituted into scoring.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/weather"
)

// ParcelNarrative asks for a short plain-language read on a parcel's
// condition.
func ParcelNarrative(ctx context.Context, c *Client, p agri.ParcelRecord) (string, error) {
	prompt := fmt.Sprintf(
		"You are an agricultural advisor. In 3-4 sentences, describe the condition of a farm parcel "+
			"with soil pH %.1f, soil moisture %.1f%%, average temperature %.1fC, rainfall %.1fmm, "+
			"growing %s with a yield of %s tons and a sustainability score of %.0f/100. "+
			"Focus on what stands out.",
		p.SoilPH, p.SoilMoisture, p.TemperatureC, p.RainfallMM,
		p.CropType, humanize.Ftoa(p.YieldTons), p.SustainabilityScore)
	return c.Generate(ctx, prompt, 0.7)
}

// MarketNarrative asks for a short commentary on a product's market
// position.
func MarketNarrative(ctx context.Context, c *Client, product string, avgPrice float64, status string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a farm market analyst. In 2-3 sentences, comment on the market for %s at an average "+
			"price of %s per ton in a %s market. Keep it practical for a farmer deciding what to plant.",
		product, humanize.CommafWithDigits(avgPrice, 2), status)
	return c.Generate(ctx, prompt, 0.7)
}

// WeatherNarrative asks for farmer-facing guidance distilled from a
// forecast.
func WeatherNarrative(ctx context.Context, c *Client, region string, forecast []weather.Sample) (string, error) {
	var lines []string
	for _, day := range forecast {
		lines = append(lines, fmt.Sprintf("%s: %s, high %.1fC, rain %.1fmm",
			day.Date.Format("Jan 2"), day.Condition, day.TempHighC, day.RainfallMM))
	}
	prompt := fmt.Sprintf(
		"You are a farm weather advisor. Given this %d-day forecast for the %s region:\n%s\n"+
			"Write 2-3 sentences of practical guidance for field work and irrigation.",
		len(forecast), region, strings.Join(lines, "\n"))
	return c.Generate(ctx, prompt, 0.6)
}
