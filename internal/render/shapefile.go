package render

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// Shapefile attribute columns. DBF names are capped at 10 characters.
var shapefileFields = []shp.Field{
	shp.StringField("ID", 32),
	shp.StringField("NAME", 64),
	shp.StringField("ORIG_NAME", 128),
	shp.StringField("SOURCE", 128),
}

// toShapePolygon converts a record ring to a one-part shapefile polygon.
// go-shp only builds PolyLines; Polygon shares their layout.
func toShapePolygon(r polygon.Record) *shp.Polygon {
	points := make([]shp.Point, len(r.Coordinates))
	for i, c := range r.Coordinates {
		points[i] = shp.Point{X: c.Lon(), Y: c.Lat()}
	}
	p := shp.Polygon(*shp.NewPolyLine([][]shp.Point{points}))
	return &p
}

// writeShapefile writes path (.shp) plus its .shx and .dbf siblings.
func writeShapefile(path string, results []*polygon.Result) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "shp: create %s", path)
	}

	written, err := writeShapes(w, results)
	w.Close()
	if err != nil {
		return err
	}
	if err := fixDBFName(path); err != nil {
		return err
	}

	zap.L().Debug("shp: wrote shapefile", zap.String("path", path), zap.Int("polygons", written))
	return nil
}

func writeShapes(w *shp.Writer, results []*polygon.Result) (int, error) {
	if err := w.SetFields(shapefileFields); err != nil {
		return 0, eris.Wrap(err, "shp: set fields")
	}

	written := 0
	for _, res := range results {
		for _, r := range res.Polygons {
			row := int(w.Write(toShapePolygon(r)))
			attrs := []string{r.ID, r.FormattedName, r.OriginalName, res.FileName}
			for field, value := range attrs {
				if err := w.WriteAttribute(row, field, value); err != nil {
					return written, eris.Wrapf(err, "shp: write attribute %d of %s", field, r.FormattedName)
				}
			}
			written++
		}
	}
	return written, nil
}

// fixDBFName moves the attribute table go-shp v0.1.1 writes as "<base>dbf"
// to "<base>.dbf", next to the .shp and .shx it belongs with.
func fixDBFName(path string) error {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	err := os.Rename(base+"dbf", base+".dbf")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "shp: rename attribute table for %s", path)
	}
	return nil
}
