package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/polygon-cli/internal/extract"
)

var fixedDay = time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

const ecoFeatureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Entrega Eco"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-46.6, -23.5], [-46.5, -23.5], [-46.5, -23.4], [-46.6, -23.5]]]
      }
    }
  ]
}`

const pointsOnly = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Loja"}, "geometry": {"type": "Point", "coordinates": [-46.6, -23.5]}}
  ]
}`

func newTestProcessor() *extract.Processor {
	return extract.NewProcessor(extract.NewExtractor(func() time.Time { return fixedDay }))
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
