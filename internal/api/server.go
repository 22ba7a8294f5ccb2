// Package api serves the advisory pipeline over HTTP.
// GET endpoints are read-only queries; POST /recommendations runs the full
// synthesis pipeline and is rate-limited per client.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
	"github.com/Kritansh-Tank/AgroInsight/internal/market"
	"github.com/Kritansh-Tank/AgroInsight/internal/store"
	"github.com/Kritansh-Tank/AgroInsight/internal/synthesis"
)

// Server exposes the synthesis engine and repository over HTTP.
type Server struct {
	Engine *synthesis.Engine
	Store  *store.DB
	Port   int
}

// Handler builds the route table. Split out from Start so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	// Synthesis may call the LLM; keep per-client volume modest.
	synthLimiter := newVisitorLimiter(rate.Limit(1), 5)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/parcels", s.handleParcels)
	mux.HandleFunc("/api/v1/parcel/", s.handleParcelDetail)
	mux.HandleFunc("/api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/v1/sustainability", s.handleSustainability)
	mux.HandleFunc("/api/v1/market", s.handleMarketOverview)
	mux.HandleFunc("/api/v1/market/", s.handleMarketProduct)
	mux.HandleFunc("/api/v1/weather/", s.handleWeather)
	mux.HandleFunc("/api/v1/recommendations", rateLimit(synthLimiter, s.handleRecommendations))
	return mux
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)
	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	parcels, err := s.Store.CountParcels()
	if err != nil {
		writeError(w, err)
		return
	}
	recs, err := s.Store.CountRecommendations()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"name":            "AgroInsight",
		"parcels":         parcels,
		"recommendations": recs,
	})
}

func (s *Server) handleParcels(w http.ResponseWriter, r *http.Request) {
	crop := r.URL.Query().Get("crop")
	parcels, err := s.Store.Parcels(crop)
	if err != nil {
		writeError(w, err)
		return
	}
	if parcels == nil {
		parcels = []agri.ParcelRecord{}
	}
	writeJSON(w, parcels)
}

func (s *Server) handleParcelDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/v1/parcel/")
	if err != nil {
		http.Error(w, "invalid parcel id", http.StatusBadRequest)
		return
	}
	parcel, err := s.Store.Parcel(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, parcel)
}

// handleAnalyze classifies ad-hoc soil and climate measurements without
// requiring a stored parcel.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vals := make(map[string]float64, 4)
	for _, key := range []string{"soil_ph", "soil_moisture", "temperature", "rainfall"} {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("missing or invalid %s", key), http.StatusBadRequest)
			return
		}
		vals[key] = v
	}
	writeJSON(w, s.Engine.AnalyzeParcel(
		vals["soil_ph"], vals["soil_moisture"], vals["temperature"], vals["rainfall"]))
}

// handleSustainability compares sustainability and input efficiency across
// the fleet, optionally filtered to one crop.
func (s *Server) handleSustainability(w http.ResponseWriter, r *http.Request) {
	comparison, err := s.Engine.SustainabilityComparison(r.URL.Query().Get("crop"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, comparison)
}

func (s *Server) handleMarketOverview(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.MarketOverview(horizonParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleMarketProduct(w http.ResponseWriter, r *http.Request) {
	product := strings.TrimPrefix(r.URL.Path, "/api/v1/market/")
	if product == "" {
		http.Error(w, "missing product", http.StatusBadRequest)
		return
	}
	analysis, err := s.Engine.MarketForProduct(product, horizonParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimPrefix(r.URL.Path, "/api/v1/weather/")
	if region == "" {
		http.Error(w, "missing region", http.StatusBadRequest)
		return
	}

	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > 30 {
			http.Error(w, "days must be 1-30", http.StatusBadRequest)
			return
		}
		days = n
	}
	includeHistorical := r.URL.Query().Get("historical") == "true"

	report, err := s.Engine.WeatherForRegion(region, days, includeHistorical)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var pref agri.PreferenceContext
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if pref.Region == "" {
		pref.Region = "central"
	}

	report, err := s.Engine.Synthesize(r.Context(), pref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

func horizonParam(r *http.Request) market.Horizon {
	if r.URL.Query().Get("horizon") == string(market.HorizonLong) {
		return market.HorizonLong
	}
	return market.HorizonShort
}

func pathID(path, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(path, prefix), 10, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agri.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, agri.ErrInvalidRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, agri.ErrInsufficientData):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, agri.ErrUpstreamUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		slog.Error("internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
