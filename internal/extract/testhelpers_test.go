package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// fixedDay is the date every test extractor reports: 05/01/2024.
var fixedDay = time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(func() time.Time { return fixedDay })
}

// kmlPlacemark renders a Placemark with one Polygon per ring.
func kmlPlacemark(name string, rings ...string) string {
	var sb strings.Builder
	sb.WriteString("<Placemark>")
	if name != "" {
		fmt.Fprintf(&sb, "<name>%s</name>", name)
	}
	if len(rings) > 1 {
		sb.WriteString("<MultiGeometry>")
	}
	for _, r := range rings {
		fmt.Fprintf(&sb, "<Polygon><outerBoundaryIs><LinearRing><coordinates>%s</coordinates></LinearRing></outerBoundaryIs></Polygon>", r)
	}
	if len(rings) > 1 {
		sb.WriteString("</MultiGeometry>")
	}
	sb.WriteString("</Placemark>")
	return sb.String()
}

func kmlDocument(placemarks ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>` + strings.Join(placemarks, "\n") + `</Document></kml>`
}

const squareRing = "-46.60,-23.50,0 -46.50,-23.50,0 -46.50,-23.40,0 -46.60,-23.50,0"

var squareCoords = []polygon.Coordinate{{-46.60, -23.50}, {-46.50, -23.50}, {-46.50, -23.40}, {-46.60, -23.50}}

type testEntry struct {
	name string
	dir  bool
	text string
	err  error
}

func (e testEntry) Name() string { return e.name }
func (e testEntry) IsDir() bool  { return e.dir }
func (e testEntry) ReadText() (string, error) {
	return e.text, e.err
}

// buildZIP builds an in-memory archive with entries in the given order.
func buildZIP(t *testing.T, entries ...testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		name := e.name
		if e.dir && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		fw, err := w.Create(name)
		require.NoError(t, err)
		if e.text != "" {
			_, err = fw.Write([]byte(e.text))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}
