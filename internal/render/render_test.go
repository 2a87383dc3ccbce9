package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

func sampleResults() []*polygon.Result {
	return []*polygon.Result{
		{
			FileName: "filial_0042.zip",
			Polygons: []polygon.Record{
				{
					ID:            "polygon-0-0",
					FormattedName: "Pol_Eco_0042_05012024",
					Coordinates:   []polygon.Coordinate{{-46.6, -23.5}, {-46.5, -23.5}, {-46.5, -23.4}, {-46.6, -23.5}},
					OriginalName:  "Entrega Eco",
				},
			},
			Warnings: []string{"archive: read broken.kml: bad"},
		},
		{
			FileName: "areas.json",
			Polygons: []polygon.Record{
				{
					ID:            "polygon-3",
					FormattedName: "Pol__0000_05012024",
					Coordinates:   []polygon.Coordinate{{0, 0}, {1, 0}, {1, 1}},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "JSON", " yaml ", "csv", "geojson", "wkt", "ewkb", "xlsx", "shp"} {
		f, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, Format(strings.ToLower(strings.TrimSpace(name))), f)
	}

	_, err := ParseFormat("kmz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestFormatCoordinates(t *testing.T) {
	got := FormatCoordinates([]polygon.Coordinate{{-46.6, -23.5}, {1, 2}})
	assert.Equal(t, "[[-46.600000, -23.500000], [1.000000, 2.000000]]", got)
	assert.Equal(t, "[]", FormatCoordinates(nil))
}

func TestPreviewCoordinates(t *testing.T) {
	ring := []polygon.Coordinate{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	assert.Equal(t, "[1.0000, 1.0000], [2.0000, 2.0000], [3.0000, 3.0000]... (+2 points)", PreviewCoordinates(ring))
	assert.Equal(t, "[1.0000, 1.0000]", PreviewCoordinates(ring[:1]))
	assert.Equal(t, "[1.0000, 1.0000], [2.0000, 2.0000], [3.0000, 3.0000]", PreviewCoordinates(ring[:3]))
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleResults()))
	out := buf.String()

	assert.Contains(t, out, "File: filial_0042.zip\n1 polygon processed\n")
	assert.Contains(t, out, "warning: archive: read broken.kml: bad")
	assert.Contains(t, out, "\nPol_Eco_0042_05012024\n  original:    Entrega Eco\n")
	assert.Contains(t, out, "[[-46.600000, -23.500000], [-46.500000, -23.500000], [-46.500000, -23.400000], [-46.600000, -23.500000]]")
	assert.Contains(t, out, "... (+1 points)")
	assert.Contains(t, out, "File: areas.json")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResults()))

	dec := json.NewDecoder(&buf)
	var first, second polygon.Result
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, *sampleResults()[0], first)
	assert.Equal(t, "areas.json", second.FileName)
	assert.Empty(t, second.Polygons[0].OriginalName)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleResults()[:1]))

	var got polygon.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleResults()[0], got)
	assert.Contains(t, buf.String(), "formatted_name: Pol_Eco_0042_05012024")
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleResults()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"filial_0042.zip", "polygon-0-0", "Pol_Eco_0042_05012024", "Entrega Eco"}, rows[1][:4])
	assert.Equal(t, "[[0.000000, 0.000000], [1.000000, 0.000000], [1.000000, 1.000000]]", rows[2][4])
}

func TestWrite_GeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatGeoJSON, sampleResults()))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string        `json:"type"`
				Coordinates [][][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "polygon-0-0", fc.Features[0].ID)
	assert.Equal(t, "Polygon", fc.Features[0].Geometry.Type)
	assert.Equal(t, [][]float64{{-46.6, -23.5}, {-46.5, -23.5}, {-46.5, -23.4}, {-46.6, -23.5}}, fc.Features[0].Geometry.Coordinates[0])
	assert.Equal(t, "Pol_Eco_0042_05012024", fc.Features[0].Properties["name"])
	assert.Equal(t, "Entrega Eco", fc.Features[0].Properties["original_name"])
	assert.NotContains(t, fc.Features[1].Properties, "original_name")
}

func TestWrite_WKT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatWKT, sampleResults()[1:]))
	assert.Equal(t, "Pol__0000_05012024\tPOLYGON ((0 0, 1 0, 1 1))\n", buf.String())
}

func TestWrite_EWKB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatEWKB, sampleResults()[:1]))

	name, hexValue, ok := strings.Cut(strings.TrimSpace(buf.String()), "\t")
	require.True(t, ok)
	assert.Equal(t, "Pol_Eco_0042_05012024", name)
	// NDR, polygon with SRID flag, SRID 4326.
	assert.True(t, strings.HasPrefix(hexValue, "0103000020e6100000"), hexValue)
}

func TestWrite_SHPNeedsFile(t *testing.T) {
	err := Write(&bytes.Buffer{}, FormatSHP, sampleResults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a file path")
}

func TestWriteFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "polygons.xlsx")
	require.NoError(t, WriteFile(path, FormatXLSX, sampleResults()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	rows := f.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Formatted name", rows[0].Cells[2].String())
	assert.Equal(t, "Pol_Eco_0042_05012024", rows[1].Cells[2].String())
	assert.Equal(t, "4", rows[1].Cells[4].String())
	assert.Equal(t, "areas.json", rows[2].Cells[0].String())
}

func TestWriteFile_Shapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polygons.shp")
	require.NoError(t, WriteFile(path, FormatSHP, sampleResults()))

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		_, err := os.Stat(strings.TrimSuffix(path, ".shp") + ext)
		require.NoError(t, err, ext)
	}
	_, err := os.Stat(strings.TrimSuffix(path, ".shp") + "dbf")
	assert.ErrorIs(t, err, os.ErrNotExist)

	reader, err := shp.Open(path)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	var names, sources []string
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		require.True(t, ok)
		assert.Equal(t, int32(1), poly.NumParts)
		names = append(names, strings.TrimSpace(strings.TrimRight(reader.Attribute(1), "\x00")))
		sources = append(sources, strings.TrimSpace(strings.TrimRight(reader.Attribute(3), "\x00")))
	}
	assert.Equal(t, []string{"Pol_Eco_0042_05012024", "Pol__0000_05012024"}, names)
	assert.Equal(t, []string{"filial_0042.zip", "areas.json"}, sources)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, "application/geo+json", ContentType(FormatGeoJSON))
	assert.Contains(t, ContentType(FormatText), "text/plain")
}
