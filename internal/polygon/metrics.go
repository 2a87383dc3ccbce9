package polygon

import (
	"github.com/golang/geo/s2"
	"github.com/rotisserie/eris"
)

// EarthRadiusMeters is the mean Earth radius used for haversine distances.
const EarthRadiusMeters = 6371000.0

// Centroid returns the arithmetic mean of the longitudes and latitudes of
// coords. It is not area-weighted and does not handle rings that cross the
// antimeridian.
func Centroid(coords []Coordinate) (Coordinate, error) {
	if len(coords) == 0 {
		return Coordinate{}, eris.Wrap(ErrInvalidInput, "polygon: centroid of empty ring")
	}
	var lon, lat float64
	for _, c := range coords {
		lon += c.Lon()
		lat += c.Lat()
	}
	n := float64(len(coords))
	return Coordinate{lon / n, lat / n}, nil
}

// HaversineMeters returns the great-circle distance between a and b.
func HaversineMeters(a, b Coordinate) float64 {
	la := s2.LatLngFromDegrees(a.Lat(), a.Lon())
	lb := s2.LatLngFromDegrees(b.Lat(), b.Lon())
	return la.Distance(lb).Radians() * EarthRadiusMeters
}

// MeanRadiusKM returns the mean haversine distance, in kilometers, from each
// vertex of coords to their centroid.
func MeanRadiusKM(coords []Coordinate) (float64, error) {
	center, err := Centroid(coords)
	if err != nil {
		return 0, eris.Wrap(err, "polygon: mean radius")
	}
	var sum float64
	for _, c := range coords {
		sum += HaversineMeters(c, center)
	}
	return sum / float64(len(coords)) / 1000, nil
}
