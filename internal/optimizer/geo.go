package optimizer

import (
	"math"

	"github.com/shoplyft/plan-service/internal/refdata"
)

const (
	earthRadiusKm = 6371.0
	// avgSpeedKmh is the fixed average travel speed. A deliberate
	// simplification: no live routing or traffic is modeled.
	avgSpeedKmh = 30.0
)

// HaversineKm calculates the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b refdata.LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// TravelTimeMin converts the haversine distance between two points into
// minutes at the fixed average speed.
func TravelTimeMin(a, b refdata.LatLng) float64 {
	return HaversineKm(a, b) / avgSpeedKmh * 60.0
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
