package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/entropy"
	"github.com/Kritansh-Tank/AgroInsight/internal/season"
)

var seedCrops = []string{"Wheat", "Corn", "Rice", "Soybean"}

// SeedDemo populates an empty database with a synthetic dataset.
// Parcel soil attributes come from layered simplex noise over a virtual
// grid, so neighboring parcels have correlated pH and moisture the way real
// fields do; market records get one observation per product per season with
// noise-jittered indices. Deterministic from the seed.
func SeedDemo(db *DB, seed int64, parcelCount int) error {
	if parcelCount <= 0 {
		parcelCount = 40
	}

	phNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	climateNoise := opensimplex.NewNormalized(seed + 2)
	rng := entropy.NewSource(seed + 3)

	side := int(math.Ceil(math.Sqrt(float64(parcelCount))))
	for i := 0; i < parcelCount; i++ {
		x := float64(i%side) * 0.35
		y := float64(i/side) * 0.35

		ph := 4.8 + phNoise.Eval2(x, y)*3.4           // 4.8–8.2
		moisture := 12 + moistNoise.Eval2(x, y)*38    // 12–50%
		temp := 12 + climateNoise.Eval2(x, y)*22      // 12–34C
		rainfall := 60 + climateNoise.Eval2(y, x)*260 // 60–320mm

		crop := seedCrops[i%len(seedCrops)]
		yield := 1.5 + rng.Float()*7.5
		p := agri.ParcelRecord{
			ID:                  int64(i + 1),
			SoilPH:              ph,
			SoilMoisture:        moisture,
			TemperatureC:        temp,
			RainfallMM:          rainfall,
			CropType:            crop,
			FertilizerKG:        60 + rng.Float()*130,
			PesticideKG:         2 + rng.Float()*18,
			YieldTons:           yield,
			SustainabilityScore: 20 + rng.Float()*70,
		}
		if err := db.InsertParcel(p); err != nil {
			return err
		}
	}

	basePrices := map[string]float64{"Wheat": 210, "Corn": 190, "Rice": 320, "Soybean": 380}
	for pi, product := range seedCrops {
		for si, sn := range season.All() {
			jitter := climateNoise.Eval2(float64(pi)*1.7, float64(si)*2.3)
			m := agri.MarketRecord{
				Product:         product,
				PricePerTon:     basePrices[product] * (0.85 + jitter*0.4),
				DemandIndex:     80 + rng.Float()*70,
				SupplyIndex:     80 + rng.Float()*70,
				CompetitorPrice: basePrices[product] * (0.8 + rng.Float()*0.4),
				EconomicIndex:   0.9 + rng.Float()*0.3,
				WeatherImpact:   rng.Float() * 10,
				SeasonalFactor:  string(sn),
				ConsumerTrend:   70 + rng.Float()*60,
			}
			if err := db.InsertMarketRecord(m); err != nil {
				return err
			}
		}
	}

	slog.Info("seeded demo dataset", "parcels", parcelCount, "products", len(seedCrops))
	return nil
}

// LoadParcelsCSV imports parcels from a CSV stream with the column order
// parcel_id, soil_ph, soil_moisture, temperature_c, rainfall_mm, crop_type,
// fertilizer_usage_kg, pesticide_usage_kg, crop_yield_ton,
// sustainability_score. The first row is assumed to be a header.
func LoadParcelsCSV(db *DB, r io.Reader) (int, error) {
	rows, err := readCSV(r, 10)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		p := agri.ParcelRecord{CropType: row[5]}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return i, fmt.Errorf("row %d: bad parcel id %q: %w", i+1, row[0], err)
		}
		p.ID = id
		for col, dst := range map[int]*float64{
			1: &p.SoilPH, 2: &p.SoilMoisture, 3: &p.TemperatureC, 4: &p.RainfallMM,
			6: &p.FertilizerKG, 7: &p.PesticideKG, 8: &p.YieldTons, 9: &p.SustainabilityScore,
		} {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return i, fmt.Errorf("row %d col %d: %w", i+1, col, err)
			}
			*dst = v
		}
		if err := db.InsertParcel(p); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

// LoadMarketCSV imports market records from a CSV stream with the column
// order product, market_price_per_ton, demand_index, supply_index,
// competitor_price_per_ton, economic_indicator, weather_impact_score,
// seasonal_factor, consumer_trend_index. The first row is a header.
func LoadMarketCSV(db *DB, r io.Reader) (int, error) {
	rows, err := readCSV(r, 9)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		m := agri.MarketRecord{Product: row[0], SeasonalFactor: row[7]}
		for col, dst := range map[int]*float64{
			1: &m.PricePerTon, 2: &m.DemandIndex, 3: &m.SupplyIndex, 4: &m.CompetitorPrice,
			5: &m.EconomicIndex, 6: &m.WeatherImpact, 8: &m.ConsumerTrend,
		} {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return i, fmt.Errorf("row %d col %d: %w", i+1, col, err)
			}
			*dst = v
		}
		if err := db.InsertMarketRecord(m); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

func readCSV(r io.Reader, wantCols int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = wantCols
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[1:], nil // skip header
}
