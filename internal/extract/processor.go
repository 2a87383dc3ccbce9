package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/polygon-cli/internal/fetcher"
	"github.com/sells-group/polygon-cli/internal/polygon"
)

// Supported input extensions.
const (
	ExtGeoJSON = ".json"
	ExtArchive = ".zip"
)

// Processor routes an input file to the extractor for its type.
type Processor struct {
	extractor *Extractor
}

// NewProcessor creates a Processor around ex.
func NewProcessor(ex *Extractor) *Processor {
	return &Processor{extractor: ex}
}

// Process extracts the polygons of one input file. The extension of
// filename picks the format: .json is GeoJSON, .zip an archive of KML
// files. Other extensions fail with polygon.ErrUnsupportedType before any
// parsing. A file that yields no polygon fails with
// polygon.ErrNoValidContent.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) (*polygon.Result, error) {
	var (
		result *polygon.Result
		err    error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtGeoJSON:
		var records []polygon.Record
		records, err = p.extractor.GeoJSON(data, filename)
		result = &polygon.Result{Polygons: records}
	case ExtArchive:
		result, err = p.processArchive(ctx, data)
	default:
		return nil, eris.Wrapf(polygon.ErrUnsupportedType, "process: %s", filename)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "process: %s", filename)
	}

	if len(result.Polygons) == 0 {
		return nil, eris.Wrapf(polygon.ErrNoValidContent, "process: %s", filename)
	}
	result.FileName = filename

	zap.L().Info("processed file",
		zap.String("file", filename),
		zap.Int("polygons", len(result.Polygons)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (p *Processor) processArchive(ctx context.Context, data []byte) (*polygon.Result, error) {
	zipEntries, err := fetcher.ReadZIP(data)
	if err != nil {
		return nil, eris.Wrap(polygon.ErrFormat, err.Error())
	}

	entries := make([]ArchiveEntry, len(zipEntries))
	for i, ze := range zipEntries {
		entries[i] = ze
	}
	return p.extractor.Archive(ctx, entries)
}
