package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// observeLogs routes the global logger to an in-memory observer for the
// duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestArchive_CorruptEntryDoesNotAbort(t *testing.T) {
	logs := observeLogs(t)

	entries := []ArchiveEntry{
		testEntry{name: "filial_0042.kml", text: kmlDocument(kmlPlacemark("Eco", squareRing))},
		testEntry{name: "broken.kml", text: "<kml><Placemark><name>half"},
	}

	result, err := newTestExtractor().Archive(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, result.Polygons, 1)
	assert.Equal(t, "Pol_Eco_0042_05012024", result.Polygons[0].FormattedName)
	assert.Equal(t, squareCoords, result.Polygons[0].Coordinates)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "broken.kml")

	warned := logs.FilterMessage("archive: skipping kml entry").All()
	require.Len(t, warned, 1)
	assert.Equal(t, zapcore.WarnLevel, warned[0].Level)
	assert.Equal(t, "broken.kml", warned[0].ContextMap()["entry"])
}

func TestArchive_BranchFromEntryName(t *testing.T) {
	entries := []ArchiveEntry{
		testEntry{name: "exports/filial 12.KML", text: kmlDocument(kmlPlacemark("a", squareRing))},
		testEntry{name: "filial 34.kml", text: kmlDocument(kmlPlacemark("b", squareRing))},
	}

	result, err := newTestExtractor().Archive(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, result.Polygons, 2)
	assert.Equal(t, "Pol__12_05012024", result.Polygons[0].FormattedName)
	assert.Equal(t, "Pol__34_05012024", result.Polygons[1].FormattedName)
}

func TestArchive_IgnoresOtherEntries(t *testing.T) {
	logs := observeLogs(t)

	entries := []ArchiveEntry{
		testEntry{name: "readme.txt", text: "hello"},
		testEntry{name: "dir.kml", dir: true},
		testEntry{name: "styles.kmz", err: eris.New("never read")},
		testEntry{name: "1.kml", text: kmlDocument(kmlPlacemark("a", squareRing))},
	}

	result, err := newTestExtractor().Archive(context.Background(), entries)
	require.NoError(t, err)
	assert.Len(t, result.Polygons, 1)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestArchive_ReadFailureIsolated(t *testing.T) {
	entries := []ArchiveEntry{
		testEntry{name: "a.kml", err: eris.New("zip: checksum error")},
		testEntry{name: "b.kml", text: kmlDocument(kmlPlacemark("x", squareRing))},
	}

	result, err := newTestExtractor().Archive(context.Background(), entries)
	require.NoError(t, err)
	assert.Len(t, result.Polygons, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "checksum error")
}

func TestArchive_NoValidContent(t *testing.T) {
	tests := []struct {
		name    string
		entries []ArchiveEntry
	}{
		{"empty archive", nil},
		{"no kml entries", []ArchiveEntry{testEntry{name: "a.json", text: "{}"}}},
		{"all entries fail", []ArchiveEntry{testEntry{name: "a.kml", text: "garbage"}}},
		{"kml without polygons", []ArchiveEntry{testEntry{name: "a.kml", text: kmlDocument()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestExtractor().Archive(context.Background(), tt.entries)
			require.Error(t, err)
			assert.ErrorIs(t, err, polygon.ErrNoValidContent)
		})
	}
}

func TestArchive_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExtractor().Archive(ctx, []ArchiveEntry{
		testEntry{name: "1.kml", text: kmlDocument(kmlPlacemark("a", squareRing))},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
