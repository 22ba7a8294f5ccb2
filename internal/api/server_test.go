package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/entropy"
	"github.com/Kritansh-Tank/AgroInsight/internal/store"
	"github.com/Kritansh-Tank/AgroInsight/internal/synthesis"
	"github.com/Kritansh-Tank/AgroInsight/internal/weather"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.SeedDemo(db, 42, 12))

	sim := weather.NewSimulator(nil, entropy.NewSource(7)).WithClock(func() time.Time {
		return time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)
	})
	srv := &Server{
		Engine: synthesis.New(db, sim, nil),
		Store:  db,
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var status map[string]any
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "AgroInsight", status["name"])
	assert.Equal(t, float64(12), status["parcels"])
}

func TestParcelEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/parcels")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var parcels []agri.ParcelRecord
		require.NoError(t, json.Unmarshal(body, &parcels))
		assert.Len(t, parcels, 12)
	})

	t.Run("crop filter with no matches is an empty array", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/parcels?crop=Saffron")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "[]", strings.TrimSpace(string(body)))
	})

	t.Run("detail", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/parcel/3")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var p agri.ParcelRecord
		require.NoError(t, json.Unmarshal(body, &p))
		assert.Equal(t, int64(3), p.ID)
	})

	t.Run("missing parcel is 404", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/parcel/999")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad id is 400", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/parcel/abc")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("classifies measurements", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/analyze?soil_ph=5.0&soil_moisture=15&temperature=32&rainfall=80")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snap struct {
			Soil struct {
				PHStatus string `json:"ph_status"`
			} `json:"soil_analysis"`
			Climate struct {
				TempCategory string `json:"temperature_category"`
			} `json:"climate_analysis"`
		}
		require.NoError(t, json.Unmarshal(body, &snap))
		assert.Equal(t, "acidic", snap.Soil.PHStatus)
		assert.Equal(t, "hot", snap.Climate.TempCategory)
	})

	t.Run("missing parameter is 400", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/analyze?soil_ph=5.0")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSustainabilityEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("fleet comparison", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/sustainability")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comparison struct {
			Stats struct {
				Count int `json:"count"`
			} `json:"sustainability_stats"`
			Best []json.RawMessage `json:"best_practices"`
		}
		require.NoError(t, json.Unmarshal(body, &comparison))
		assert.Equal(t, 12, comparison.Stats.Count)
		assert.Len(t, comparison.Best, 5)
	})

	t.Run("crop filter", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/sustainability?crop=Wheat")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comparison struct {
			CropFilter string            `json:"crop_filter"`
			Breakdown  []json.RawMessage `json:"crop_comparison"`
		}
		require.NoError(t, json.Unmarshal(body, &comparison))
		assert.Equal(t, "Wheat", comparison.CropFilter)
		assert.Empty(t, comparison.Breakdown)
	})

	t.Run("unknown crop is 422", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/sustainability?crop=Saffron")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestMarketEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("overview", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/market?horizon=long-term")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var report struct {
			Horizon string `json:"time_horizon"`
		}
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "long-term", report.Horizon)
	})

	t.Run("product analysis", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/market/Wheat")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var analysis struct {
			Product string `json:"product"`
		}
		require.NoError(t, json.Unmarshal(body, &analysis))
		assert.Equal(t, "Wheat", analysis.Product)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/market/Saffron")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestWeatherEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("forecast with historical", func(t *testing.T) {
		resp, body := get(t, ts, "/api/v1/weather/north?days=5&historical=true")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report struct {
			Region     string           `json:"region"`
			Forecast   []weather.Sample `json:"forecast"`
			Historical []weather.Sample `json:"historical_data"`
		}
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "north", report.Region)
		assert.Len(t, report.Forecast, 5)
		assert.Len(t, report.Historical, 30)
	})

	t.Run("days out of range is 400", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/weather/north?days=45")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown region is 404", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/weather/atlantis")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRecommendationsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("synthesis round trip", func(t *testing.T) {
		payload := strings.NewReader(`{"parcel_id": 1, "region": "north", "sustainability_preference": 7}`)
		resp, err := http.Post(ts.URL+"/api/v1/recommendations", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report synthesis.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, int64(1), report.Parcel.ID)
		assert.NotEmpty(t, report.RankedActions)
		assert.LessOrEqual(t, len(report.RankedActions), 5)
	})

	t.Run("region defaults to central", func(t *testing.T) {
		payload := strings.NewReader(`{"parcel_id": 2, "sustainability_preference": 5}`)
		resp, err := http.Post(ts.URL+"/api/v1/recommendations", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("get is rejected", func(t *testing.T) {
		resp, _ := get(t, ts, "/api/v1/recommendations")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("bad body is 400", func(t *testing.T) {
		payload := strings.NewReader(`{"parcel_id": `)
		resp, err := http.Post(ts.URL+"/api/v1/recommendations", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown parcel is 404", func(t *testing.T) {
		payload := strings.NewReader(`{"parcel_id": 9999}`)
		resp, err := http.Post(ts.URL+"/api/v1/recommendations", "application/json", payload)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
