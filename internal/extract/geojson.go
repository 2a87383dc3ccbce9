package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/polygon-cli/internal/fetcher"
	"github.com/sells-group/polygon-cli/internal/polygon"
)

type geoJSONFeature struct {
	Geometry   *geoJSONGeometry `json:"geometry"`
	Properties map[string]any   `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// GeoJSON extracts Polygon features from a GeoJSON document. The top level
// must carry both "type" and "features"; anything else fails with
// polygon.ErrFormat. Features without a Polygon geometry are skipped.
func (e *Extractor) GeoJSON(raw []byte, filename string) ([]polygon.Record, error) {
	top, err := fetcher.DecodeJSONObject[map[string]json.RawMessage](bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrapf(polygon.ErrFormat, "geojson: %s: %v", filename, err)
	}
	if *top == nil || !present((*top)["type"]) || !present((*top)["features"]) {
		return nil, eris.Wrapf(polygon.ErrFormat, "geojson: %s: missing \"type\" or \"features\"", filename)
	}

	var features []json.RawMessage
	if err := json.Unmarshal((*top)["features"], &features); err != nil {
		return nil, eris.Wrapf(polygon.ErrFormat, "geojson: %s: \"features\" is not an array", filename)
	}

	branch := polygon.BranchNumber(filename)
	today := e.today()

	var records []polygon.Record
	skipped := 0
	for i, rawFeature := range features {
		var f geoJSONFeature
		if err := json.Unmarshal(rawFeature, &f); err != nil || f.Geometry == nil || f.Geometry.Type != "Polygon" {
			skipped++
			continue
		}

		ring := outerRing(f.Geometry.Coordinates)
		if len(ring) == 0 {
			skipped++
			continue
		}

		originalName := firstString(f.Properties, "name", "Name")
		classifySource := originalName
		if classifySource == "" {
			classifySource = idString(f.Properties["id"])
		}
		if originalName == "" {
			originalName = placeholderName(i)
		}

		records = append(records, polygon.Record{
			ID:            fmt.Sprintf("polygon-%d", i),
			FormattedName: polygon.FormatName(originalName, branch, polygon.Classify(classifySource), today),
			Coordinates:   ring,
			OriginalName:  originalName,
		})
	}

	if skipped > 0 {
		zap.L().Debug("geojson: skipped features",
			zap.String("file", filename),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}

// present mirrors a truthiness check on a JSON member: absent, null, false,
// 0 and "" all count as missing.
func present(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// outerRing decodes the first ring of a Polygon's coordinates. Positions
// keep their first two numbers; positions that are shorter, or whose first
// two members are not numbers, are dropped. Undecodable coordinates yield
// nil.
func outerRing(raw json.RawMessage) []polygon.Coordinate {
	var rings []json.RawMessage
	if err := json.Unmarshal(raw, &rings); err != nil || len(rings) == 0 {
		return nil
	}

	var positions []json.RawMessage
	if err := json.Unmarshal(rings[0], &positions); err != nil {
		return nil
	}

	coords := make([]polygon.Coordinate, 0, len(positions))
	for _, p := range positions {
		if c, ok := position(p); ok {
			coords = append(coords, c)
		}
	}
	return coords
}

// position decodes one [lon, lat, ...] array. A null member decodes to a
// nil pointer rather than 0, so it is rejected instead of becoming a vertex.
func position(raw json.RawMessage) (polygon.Coordinate, bool) {
	var members []*float64
	if err := json.Unmarshal(raw, &members); err != nil || len(members) < 2 {
		return polygon.Coordinate{}, false
	}
	if members[0] == nil || members[1] == nil {
		return polygon.Coordinate{}, false
	}
	return polygon.Coordinate{*members[0], *members[1]}, true
}

// firstString returns the first non-empty string property among keys.
func firstString(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// idString renders a feature id property, which may be a string or a number.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}
