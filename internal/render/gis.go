package render

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// SRID of every emitted geometry: plain WGS84 longitude/latitude.
const SRID = 4326

// ToPolygon converts a record's ring into a single-ring go-geom polygon.
// The ring is used as-is; it is neither closed nor reoriented.
func ToPolygon(r polygon.Record) *geom.Polygon {
	flat := make([]float64, 0, len(r.Coordinates)*2)
	for _, c := range r.Coordinates {
		flat = append(flat, c.Lon(), c.Lat())
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(SRID)
}

// writeGeoJSON emits a single FeatureCollection covering all results.
func writeGeoJSON(w io.Writer, results []*polygon.Result) error {
	fc := geojson.FeatureCollection{}
	for _, res := range results {
		for _, r := range res.Polygons {
			props := map[string]any{
				"name":        r.FormattedName,
				"source_file": res.FileName,
			}
			if r.OriginalName != "" {
				props["original_name"] = r.OriginalName
			}
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:         r.ID,
				Geometry:   ToPolygon(r),
				Properties: props,
			})
		}
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return eris.Wrap(err, "render: encode geojson")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "render: write geojson")
	}
	return nil
}

// writeWKT emits "name<TAB>POLYGON ((...))" per record.
func writeWKT(w io.Writer, results []*polygon.Result) error {
	for _, res := range results {
		for _, r := range res.Polygons {
			s, err := wkt.Marshal(ToPolygon(r))
			if err != nil {
				return eris.Wrapf(err, "render: encode wkt for %s", r.FormattedName)
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r.FormattedName, s); err != nil {
				return eris.Wrap(err, "render: write wkt")
			}
		}
	}
	return nil
}

// EncodeEWKB returns the little-endian EWKB of a record's polygon.
func EncodeEWKB(r polygon.Record) ([]byte, error) {
	data, err := ewkb.Marshal(ToPolygon(r), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrapf(err, "render: encode ewkb for %s", r.FormattedName)
	}
	return data, nil
}

// writeEWKB emits "name<TAB>hex-ewkb" per record, the form PostGIS accepts
// as a geometry literal.
func writeEWKB(w io.Writer, results []*polygon.Result) error {
	for _, res := range results {
		for _, r := range res.Polygons {
			data, err := EncodeEWKB(r)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r.FormattedName, hex.EncodeToString(data)); err != nil {
				return eris.Wrap(err, "render: write ewkb")
			}
		}
	}
	return nil
}
