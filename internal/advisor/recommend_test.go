package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

func focuses(items []agri.RecommendationItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Focus
	}
	return out
}

func TestCropRecommendations(t *testing.T) {
	t.Run("acidic wet and cool suggests rice", func(t *testing.T) {
		parcel := agri.ParcelRecord{SoilPH: 5.6, TemperatureC: 22, RainfallMM: 220}
		items := CropRecommendations(parcel, 5)
		require.Len(t, items, 1)
		assert.Equal(t, "Rice", items[0].Focus)
	})

	t.Run("acidic but dry suggests nothing", func(t *testing.T) {
		parcel := agri.ParcelRecord{SoilPH: 5.6, TemperatureC: 22, RainfallMM: 120}
		assert.Empty(t, CropRecommendations(parcel, 5))
	})

	t.Run("neutral moist suggests corn", func(t *testing.T) {
		parcel := agri.ParcelRecord{SoilPH: 6.5, SoilMoisture: 35}
		items := CropRecommendations(parcel, 5)
		require.Len(t, items, 1)
		assert.Equal(t, "Corn", items[0].Focus)
	})

	t.Run("neutral dry suggests wheat", func(t *testing.T) {
		parcel := agri.ParcelRecord{SoilPH: 6.5, SoilMoisture: 25}
		items := CropRecommendations(parcel, 5)
		require.Len(t, items, 1)
		assert.Equal(t, "Wheat", items[0].Focus)
	})

	t.Run("alkaline suggests soybean", func(t *testing.T) {
		parcel := agri.ParcelRecord{SoilPH: 7.4}
		items := CropRecommendations(parcel, 5)
		require.Len(t, items, 1)
		assert.Equal(t, "Soybean", items[0].Focus)
	})

	t.Run("strong preference adds crop rotation", func(t *testing.T) {
		parcel := agri.ParcelRecord{SoilPH: 6.5, SoilMoisture: 35}
		items := CropRecommendations(parcel, 8)
		assert.Contains(t, focuses(items), "Crop Rotation")

		items = CropRecommendations(parcel, 7)
		assert.NotContains(t, focuses(items), "Crop Rotation")
	})
}

func TestResourceRecommendations(t *testing.T) {
	t.Run("soil health is always recommended", func(t *testing.T) {
		parcel := agri.ParcelRecord{RainfallMM: 200, FertilizerKG: 50, PesticideKG: 5}
		items := ResourceRecommendations(parcel)
		require.Len(t, items, 1)
		assert.Equal(t, "Soil", items[0].Focus)
	})

	t.Run("all triggers stack in fixed order", func(t *testing.T) {
		parcel := agri.ParcelRecord{RainfallMM: 100, FertilizerKG: 150, PesticideKG: 15}
		items := ResourceRecommendations(parcel)
		assert.Equal(t, []string{"Water", "Fertilizer", "Pesticides", "Soil"}, focuses(items))
	})
}

func TestPracticeRecommendations(t *testing.T) {
	t.Run("baseline practices", func(t *testing.T) {
		items := PracticeRecommendations(3)
		assert.Equal(t, []string{"Soil Testing", "Organic Matter"}, focuses(items))
	})

	t.Run("preference above 5 adds biodiversity", func(t *testing.T) {
		items := PracticeRecommendations(6)
		assert.Equal(t, []string{"Soil Testing", "Organic Matter", "Biodiversity"}, focuses(items))
	})

	t.Run("preference above 8 adds renewable energy", func(t *testing.T) {
		items := PracticeRecommendations(9)
		require.Len(t, items, 4)
		last := items[3]
		assert.Equal(t, "Renewable Energy", last.Focus)
		assert.Negative(t, last.EconomicImpact)
	})
}

func TestGenerateRecommendationsOrder(t *testing.T) {
	parcel := agri.ParcelRecord{SoilPH: 6.5, SoilMoisture: 35, RainfallMM: 100, FertilizerKG: 150, PesticideKG: 15}
	items := GenerateRecommendations(parcel, 9)

	want := []string{
		"Corn", "Crop Rotation",
		"Water", "Fertilizer", "Pesticides", "Soil",
		"Soil Testing", "Organic Matter", "Biodiversity", "Renewable Energy",
	}
	assert.Equal(t, want, focuses(items))
}
