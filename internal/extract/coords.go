package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// ParseCoordinates parses a KML coordinates blob ("lon,lat[,alt] ...") into
// [lon, lat] pairs in input order. Tokens with fewer than two parts or a
// non-numeric longitude or latitude are dropped.
func ParseCoordinates(text string) []polygon.Coordinate {
	var coords []polygon.Coordinate
	for _, token := range strings.Fields(text) {
		parts := strings.Split(token, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := parseNumber(parts[0])
		if err != nil {
			continue
		}
		lat, err := parseNumber(parts[1])
		if err != nil {
			continue
		}
		coords = append(coords, polygon.Coordinate{lon, lat})
	}
	return coords
}

// parseNumber accepts finite decimal numbers only; "NaN" and "Inf" are
// rejected along with anything non-numeric.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
