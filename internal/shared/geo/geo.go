package geo

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// DefaultCenter is where maps open when a trail has no usable coordinates.
var DefaultCenter = Coordinates{Lat: 33.4255, Lng: -111.9400}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (c Coordinates) DistanceKm(other Coordinates) float64 {
	return HaversineKm(c.Lat, c.Lng, other.Lat, other.Lng)
}

// Parse reads string-encoded coordinates as stored on trails.
func Parse(lat, lng string) (Coordinates, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || la < -90 || la > 90 {
		return Coordinates{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil || lo < -180 || lo > 180 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: la, Lng: lo}, true
}

// FormatQuery renders coordinates with two decimals, the precision the trails
// API is queried with.
func FormatQuery(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
