// Package render presents processed polygons: copy-paste friendly text,
// structured documents, GIS encodings, spreadsheets and shapefiles.
package render

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatCSV     Format = "csv"
	FormatGeoJSON Format = "geojson"
	FormatWKT     Format = "wkt"
	FormatEWKB    Format = "ewkb"
	FormatXLSX    Format = "xlsx"
	FormatSHP     Format = "shp"
)

// writers holds the formats that can be streamed to any io.Writer.
var writers = map[Format]func(io.Writer, []*polygon.Result) error{
	FormatText:    writeText,
	FormatJSON:    writeJSON,
	FormatYAML:    writeYAML,
	FormatCSV:     writeCSV,
	FormatGeoJSON: writeGeoJSON,
	FormatWKT:     writeWKT,
	FormatEWKB:    writeEWKB,
	FormatXLSX:    writeXLSX,
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := writers[f]; ok || f == FormatSHP {
		return f, nil
	}
	return "", eris.Errorf("render: unknown format %q", s)
}

// ContentType returns the MIME type for a format.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatGeoJSON:
		return "application/geo+json"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Write encodes results to w. Shapefiles span several files and can only be
// written with WriteFile.
func Write(w io.Writer, f Format, results []*polygon.Result) error {
	fn, ok := writers[f]
	if !ok {
		if f == FormatSHP {
			return eris.New("render: shp output needs a file path")
		}
		return eris.Errorf("render: unknown format %q", f)
	}
	return fn(w, results)
}

// WriteFile encodes results to the file at path, creating parent
// directories as needed.
func WriteFile(path string, f Format, results []*polygon.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "render: create output directory")
	}
	if f == FormatSHP {
		return writeShapefile(path, results)
	}

	out, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "render: create output file")
	}
	if err := Write(out, f, results); err != nil {
		_ = out.Close()
		return err
	}
	return eris.Wrap(out.Close(), "render: close output file")
}
