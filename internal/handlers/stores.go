package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplyft/plan-service/internal/optimizer"
	"github.com/shoplyft/plan-service/internal/refdata"
)

// ============================================================================
// Store Reference Endpoints
// ============================================================================

// StoreInfo represents a store in nearby-search results
type StoreInfo struct {
	StoreID    string  `json:"storeId"`
	RetailerID string  `json:"retailerId"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Suburb     string  `json:"suburb,omitempty"`
	Postcode   string  `json:"postcode,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distanceKm"`
}

// NearbyStores handles store proximity searches
// GET /internal/stores/nearby?lat=..&lng=..&radiusKm=..
func NearbyStores(c *gin.Context) {
	if refSet == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reference data not initialized"})
		return
	}

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number in [-90, 90]"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng must be a number in [-180, 180]"})
		return
	}

	radiusKm := 10.0
	if radiusStr := c.Query("radiusKm"); radiusStr != "" {
		radiusKm, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radiusKm <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radiusKm must be a positive number"})
			return
		}
	}

	origin := refdata.LatLng{Lat: lat, Lng: lng}
	var results []*StoreInfo
	for i := range refSet.Stores {
		st := &refSet.Stores[i]
		d := optimizer.HaversineKm(origin, st.Location)
		if d > radiusKm {
			continue
		}
		results = append(results, &StoreInfo{
			StoreID:    st.StoreID,
			RetailerID: st.RetailerID,
			Name:       st.Name,
			Address:    st.Address,
			Suburb:     st.Suburb,
			Postcode:   st.Postcode,
			Latitude:   st.Location.Lat,
			Longitude:  st.Location.Lng,
			DistanceKm: d,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
