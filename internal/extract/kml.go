package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// KML extracts the outer rings of every Polygon under every Placemark of a
// KML document. Polygons missing any link of the
// outerBoundaryIs/LinearRing/coordinates chain, or whose coordinates hold no
// valid pair, are skipped. Only a document that cannot be parsed at all
// fails, with polygon.ErrFormat.
func (e *Extractor) KML(raw []byte, filename string) ([]polygon.Record, error) {
	doc, err := ParseElementTree(bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrapf(err, "kml: parse %s", filename)
	}

	branch := polygon.BranchNumber(filename)
	today := e.today()

	var records []polygon.Record
	skipped := 0
	for i, placemark := range doc.Descendants("Placemark") {
		originalName := placeholderName(i)
		if el := placemark.FirstDescendant("name"); el != nil {
			if name := strings.TrimSpace(el.Text()); name != "" {
				originalName = name
			}
		}
		typeCode := polygon.Classify(originalName)

		for j, poly := range placemark.Descendants("Polygon") {
			coords := outerBoundary(poly)
			if len(coords) == 0 {
				skipped++
				continue
			}

			records = append(records, polygon.Record{
				ID:            fmt.Sprintf("polygon-%d-%d", i, j),
				FormattedName: polygon.FormatName(originalName, branch, typeCode, today),
				Coordinates:   coords,
				OriginalName:  originalName,
			})
		}
	}

	if skipped > 0 {
		zap.L().Debug("kml: skipped polygons",
			zap.String("file", filename),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}

// outerBoundary follows outerBoundaryIs -> LinearRing -> coordinates and
// parses the ring. A missing link yields nil.
func outerBoundary(poly *Element) []polygon.Coordinate {
	el := poly
	for _, tag := range []string{"outerBoundaryIs", "LinearRing", "coordinates"} {
		if el = el.FirstDescendant(tag); el == nil {
			return nil
		}
	}

	text := strings.TrimSpace(el.Text())
	if text == "" {
		return nil
	}
	return ParseCoordinates(text)
}
