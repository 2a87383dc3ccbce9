package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

const previewPoints = 3

// FormatCoordinates renders a ring as [[lon, lat], ...] with six decimals,
// the form users paste into other tools.
func FormatCoordinates(coords []polygon.Coordinate) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("[%.6f, %.6f]", c.Lon(), c.Lat())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PreviewCoordinates renders the first three points with four decimals and
// a count of the rest.
func PreviewCoordinates(coords []polygon.Coordinate) string {
	n := min(len(coords), previewPoints)
	parts := make([]string, n)
	for i, c := range coords[:n] {
		parts[i] = fmt.Sprintf("[%.4f, %.4f]", c.Lon(), c.Lat())
	}
	out := strings.Join(parts, ", ")
	if extra := len(coords) - previewPoints; extra > 0 {
		out += fmt.Sprintf("... (+%d points)", extra)
	}
	return out
}

func writeText(w io.Writer, results []*polygon.Result) error {
	bw := bufio.NewWriter(w)
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "File: %s\n", res.FileName)
		fmt.Fprintf(bw, "%d %s processed\n", len(res.Polygons), plural(len(res.Polygons), "polygon", "polygons"))
		for _, warning := range res.Warnings {
			fmt.Fprintf(bw, "warning: %s\n", warning)
		}
		for _, r := range res.Polygons {
			fmt.Fprintf(bw, "\n%s\n", r.FormattedName)
			if r.OriginalName != "" {
				fmt.Fprintf(bw, "  original:    %s\n", r.OriginalName)
			}
			fmt.Fprintf(bw, "  preview:     %s\n", PreviewCoordinates(r.Coordinates))
			fmt.Fprintf(bw, "  coordinates: %s\n", FormatCoordinates(r.Coordinates))
		}
	}
	return eris.Wrap(bw.Flush(), "render: write text")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
