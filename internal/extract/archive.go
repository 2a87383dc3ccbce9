package extract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// ArchiveEntry is one member of a decompressed archive.
type ArchiveEntry interface {
	Name() string
	IsDir() bool
	ReadText() (string, error)
}

// Archive runs the KML extractor over every .kml entry, in archive order.
// Each entry is named after its own path, which is what its branch number is
// derived from. An entry that cannot be read or parsed is logged, recorded
// in the result's warnings and skipped. Other entries are ignored. If no
// entry yields a polygon the call fails with polygon.ErrNoValidContent.
func (e *Extractor) Archive(ctx context.Context, entries []ArchiveEntry) (*polygon.Result, error) {
	result := &polygon.Result{}
	kmlEntries := 0

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "archive: context cancelled")
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".kml") {
			continue
		}
		kmlEntries++

		records, err := e.archiveEntry(entry)
		if err != nil {
			zap.L().Warn("archive: skipping kml entry",
				zap.String("entry", entry.Name()),
				zap.Error(err),
			)
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		result.Polygons = append(result.Polygons, records...)
	}

	if len(result.Polygons) == 0 {
		return nil, eris.Wrapf(polygon.ErrNoValidContent,
			"archive: %d kml entries, %d failed", kmlEntries, len(result.Warnings))
	}
	return result, nil
}

func (e *Extractor) archiveEntry(entry ArchiveEntry) ([]polygon.Record, error) {
	text, err := entry.ReadText()
	if err != nil {
		return nil, eris.Wrapf(err, "archive: read %s", entry.Name())
	}
	return e.KML([]byte(text), entry.Name())
}
