package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/hotelsearch/internal/domain"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6_371.0

// Point is a validated latitude/longitude pair in degrees.
type Point struct {
	lat float64
	lon float64
}

// NewPoint validates coordinates and returns a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("%w: lat=%v lon=%v out of range", domain.ErrInvalidGeoPoint, lat, lon)
	}
	return Point{lat: lat, lon: lon}, nil
}

// ParsePoint parses the "lat,lon" form used by hotel documents and search requests.
// Whitespace around either component is ignored.
func ParsePoint(s string) (Point, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q is not \"lat,lon\"", domain.ErrInvalidGeoPoint, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", domain.ErrInvalidGeoPoint, latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", domain.ErrInvalidGeoPoint, lonStr)
	}
	return NewPoint(lat, lon)
}

// Lat returns the latitude in degrees.
func (p Point) Lat() float64 { return p.lat }

// Lon returns the longitude in degrees.
func (p Point) Lon() float64 { return p.lon }

// String formats the point as "lat, lon".
func (p Point) String() string {
	return strconv.FormatFloat(p.lat, 'f', -1, 64) + ", " + strconv.FormatFloat(p.lon, 'f', -1, 64)
}

// DistanceKm returns the great-circle distance to q in kilometers.
func (p Point) DistanceKm(q Point) float64 {
	return Haversine(p.lat, p.lon, q.lat, q.lon)
}

// Haversine returns the great-circle distance in kilometers between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
