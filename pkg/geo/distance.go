package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371008.8

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" cbor:"1,keyasint"`
	Longitude float64 `json:"longitude" yaml:"longitude" cbor:"2,keyasint"`
}

// Valid reports whether the point lies within the WGS84 coordinate range.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180 &&
		!math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude)
}

// String returns "lat,lon" with six decimals.
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// Distance returns the great-circle distance between a and b in metres
// using the haversine formula.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Offset returns the point reached by moving north and east by the given
// number of metres from p. Accurate enough for geofence-scale distances.
func Offset(p Point, north, east float64) Point {
	dLat := north / EarthRadius
	dLon := east / (EarthRadius * math.Cos(radians(p.Latitude)))
	return Point{
		Latitude:  p.Latitude + degrees(dLat),
		Longitude: p.Longitude + degrees(dLon),
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
