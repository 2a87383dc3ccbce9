package render

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

const sheetName = "Polygons"

// BuildWorkbook lays all records out on one sheet: a header row, then one
// row per record with the ring in copy-paste form and its point count.
func BuildWorkbook(results []*polygon.Result) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"File", "ID", "Formatted name", "Original name", "Points", "Coordinates"} {
		header.AddCell().SetString(h)
	}

	for _, res := range results {
		for _, r := range res.Polygons {
			row := sheet.AddRow()
			row.AddCell().SetString(res.FileName)
			row.AddCell().SetString(r.ID)
			row.AddCell().SetString(r.FormattedName)
			row.AddCell().SetString(r.OriginalName)
			row.AddCell().SetInt(len(r.Coordinates))
			row.AddCell().SetString(FormatCoordinates(r.Coordinates))
		}
	}
	return f, nil
}

func writeXLSX(w io.Writer, results []*polygon.Result) error {
	f, err := BuildWorkbook(results)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}
