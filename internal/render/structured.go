package render

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// writeJSON emits one JSON document per result, newline separated.
func writeJSON(w io.Writer, results []*polygon.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "render: encode json")
		}
	}
	return nil
}

// writeYAML emits a YAML stream with one document per result.
func writeYAML(w io.Writer, results []*polygon.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "render: encode yaml")
		}
	}
	return eris.Wrap(enc.Close(), "render: close yaml encoder")
}

var csvHeader = []string{"file_name", "id", "formatted_name", "original_name", "coordinates"}

func writeCSV(w io.Writer, results []*polygon.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "render: write csv header")
	}
	for _, res := range results {
		for _, r := range res.Polygons {
			row := []string{res.FileName, r.ID, r.FormattedName, r.OriginalName, FormatCoordinates(r.Coordinates)}
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "render: write csv row")
			}
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "render: flush csv")
}
