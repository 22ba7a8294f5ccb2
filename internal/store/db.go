// Package store provides SQLite-backed storage for parcels, market records,
// and appended recommendations. The analysis engines never touch it directly;
// they consume plain record slices fetched here by the synthesis layer.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/weather"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path. Use ":memory:"
// for an ephemeral database.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parcels (
		parcel_id INTEGER PRIMARY KEY,
		soil_ph REAL NOT NULL,
		soil_moisture REAL NOT NULL,
		temperature_c REAL NOT NULL,
		rainfall_mm REAL NOT NULL,
		crop_type TEXT NOT NULL,
		fertilizer_usage_kg REAL NOT NULL,
		pesticide_usage_kg REAL NOT NULL,
		crop_yield_ton REAL NOT NULL,
		sustainability_score REAL NOT NULL,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS market_records (
		market_id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		market_price_per_ton REAL NOT NULL,
		demand_index REAL NOT NULL,
		supply_index REAL NOT NULL,
		competitor_price_per_ton REAL NOT NULL,
		economic_indicator REAL NOT NULL,
		weather_impact_score REAL NOT NULL,
		seasonal_factor TEXT NOT NULL,
		consumer_trend_index REAL NOT NULL,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		parcel_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		recommendation_text TEXT NOT NULL,
		sustainability_impact REAL NOT NULL,
		economic_impact REAL NOT NULL,
		confidence_score REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (parcel_id) REFERENCES parcels (parcel_id)
	);

	CREATE TABLE IF NOT EXISTS weather_forecasts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		region TEXT NOT NULL,
		forecast_date DATE NOT NULL,
		temperature_high_c REAL NOT NULL,
		temperature_low_c REAL NOT NULL,
		precipitation_mm REAL NOT NULL,
		humidity_percent REAL NOT NULL,
		wind_speed_kph REAL NOT NULL,
		condition TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_parcels_crop ON parcels(crop_type);
	CREATE INDEX IF NOT EXISTS idx_market_product ON market_records(product);
	CREATE INDEX IF NOT EXISTS idx_recs_parcel ON recommendations(parcel_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Parcel fetches one parcel by id. Missing parcels map to agri.ErrNotFound.
func (db *DB) Parcel(id int64) (agri.ParcelRecord, error) {
	var p agri.ParcelRecord
	err := db.conn.Get(&p, `SELECT parcel_id, soil_ph, soil_moisture, temperature_c, rainfall_mm,
		crop_type, fertilizer_usage_kg, pesticide_usage_kg, crop_yield_ton, sustainability_score
		FROM parcels WHERE parcel_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return agri.ParcelRecord{}, fmt.Errorf("%w: parcel %d", agri.ErrNotFound, id)
	}
	if err != nil {
		return agri.ParcelRecord{}, fmt.Errorf("get parcel %d: %w", id, err)
	}
	return p, nil
}

// Parcels fetches all parcels, optionally filtered to one crop type.
func (db *DB) Parcels(cropFilter string) ([]agri.ParcelRecord, error) {
	query := `SELECT parcel_id, soil_ph, soil_moisture, temperature_c, rainfall_mm,
		crop_type, fertilizer_usage_kg, pesticide_usage_kg, crop_yield_ton, sustainability_score
		FROM parcels`
	args := []any{}
	if cropFilter != "" {
		query += ` WHERE crop_type = ?`
		args = append(args, cropFilter)
	}
	query += ` ORDER BY parcel_id`

	var out []agri.ParcelRecord
	if err := db.conn.Select(&out, query, args...); err != nil {
		return nil, fmt.Errorf("list parcels: %w", err)
	}
	return out, nil
}

// InsertParcel stores one parcel snapshot (full replace on conflict).
func (db *DB) InsertParcel(p agri.ParcelRecord) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO parcels
		(parcel_id, soil_ph, soil_moisture, temperature_c, rainfall_mm,
		 crop_type, fertilizer_usage_kg, pesticide_usage_kg, crop_yield_ton, sustainability_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SoilPH, p.SoilMoisture, p.TemperatureC, p.RainfallMM,
		p.CropType, p.FertilizerKG, p.PesticideKG, p.YieldTons, p.SustainabilityScore)
	if err != nil {
		return fmt.Errorf("insert parcel %d: %w", p.ID, err)
	}
	return nil
}

// MarketRecords fetches market records, optionally filtered to one product
// (case-insensitive, matching how callers query by crop type).
func (db *DB) MarketRecords(productFilter string) ([]agri.MarketRecord, error) {
	query := `SELECT market_id, product, market_price_per_ton, demand_index, supply_index,
		competitor_price_per_ton, economic_indicator, weather_impact_score,
		seasonal_factor, consumer_trend_index
		FROM market_records`
	args := []any{}
	if productFilter != "" {
		query += ` WHERE product = ? COLLATE NOCASE`
		args = append(args, productFilter)
	}
	query += ` ORDER BY market_id`

	var out []agri.MarketRecord
	if err := db.conn.Select(&out, query, args...); err != nil {
		return nil, fmt.Errorf("list market records: %w", err)
	}
	return out, nil
}

// InsertMarketRecord stores one market observation.
func (db *DB) InsertMarketRecord(m agri.MarketRecord) error {
	_, err := db.conn.Exec(`INSERT INTO market_records
		(product, market_price_per_ton, demand_index, supply_index,
		 competitor_price_per_ton, economic_indicator, weather_impact_score,
		 seasonal_factor, consumer_trend_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Product, m.PricePerTon, m.DemandIndex, m.SupplyIndex,
		m.CompetitorPrice, m.EconomicIndex, m.WeatherImpact,
		m.SeasonalFactor, m.ConsumerTrend)
	if err != nil {
		return fmt.Errorf("insert market record for %s: %w", m.Product, err)
	}
	return nil
}

// AppendRecommendation records one emitted recommendation against a parcel
// and returns the row's generated id.
func (db *DB) AppendRecommendation(parcelID int64, item agri.RecommendationItem) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO recommendations
		(id, parcel_id, category, recommendation_text, sustainability_impact, economic_impact, confidence_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, parcelID, string(item.Category), item.Action,
		item.SustainabilityImpact, item.EconomicImpact, item.Confidence)
	if err != nil {
		return "", fmt.Errorf("append recommendation for parcel %d: %w", parcelID, err)
	}
	return id, nil
}

// RecommendationCount reports how many recommendations are stored for a
// parcel.
func (db *DB) RecommendationCount(parcelID int64) (int, error) {
	var n int
	if err := db.conn.Get(&n, `SELECT COUNT(*) FROM recommendations WHERE parcel_id = ?`, parcelID); err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return n, nil
}

// CountRecommendations reports the total stored recommendation count.
func (db *DB) CountRecommendations() (int, error) {
	var n int
	if err := db.conn.Get(&n, `SELECT COUNT(*) FROM recommendations`); err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return n, nil
}

// SaveForecast persists a generated forecast for later inspection. The core
// never reads these back; they exist for the calling layer.
func (db *DB) SaveForecast(region string, samples []weather.Sample) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO weather_forecasts
		(region, forecast_date, temperature_high_c, temperature_low_c,
		 precipitation_mm, humidity_percent, wind_speed_kph, condition)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		_, err := stmt.Exec(region, s.Date.Format(time.DateOnly),
			s.TempHighC, s.TempLowC, s.RainfallMM, s.HumidityPct, s.WindKPH, string(s.Condition))
		if err != nil {
			return fmt.Errorf("insert forecast day %s: %w", s.Date.Format(time.DateOnly), err)
		}
	}
	return tx.Commit()
}

// CountParcels reports the total parcel count, used to decide whether the
// database needs seeding.
func (db *DB) CountParcels() (int, error) {
	var n int
	if err := db.conn.Get(&n, `SELECT COUNT(*) FROM parcels`); err != nil {
		return 0, fmt.Errorf("count parcels: %w", err)
	}
	return n, nil
}
