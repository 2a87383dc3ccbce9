package polygon

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrFormat means the input does not have the expected top-level shape.
	ErrFormat = eris.New("invalid file format")
	// ErrNoValidContent means the input parsed but produced no polygons.
	ErrNoValidContent = eris.New("no valid polygons found")
	// ErrUnsupportedType means the file extension is not recognized.
	ErrUnsupportedType = eris.New("unsupported file type")
	// ErrInvalidInput means a geometry helper received unusable input.
	ErrInvalidInput = eris.New("invalid input")
)

// UserMessage maps an error from the processing pipeline to a message fit
// for showing to the person who submitted the file.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedType):
		return "Unsupported file type. Use .json or .zip files."
	case errors.Is(err, ErrFormat):
		return "The file is not valid. GeoJSON files must contain \"type\" and \"features\"; archives must contain readable KML."
	case errors.Is(err, ErrNoValidContent):
		return "No valid polygons were found in the file."
	default:
		return "Unknown error while processing the file."
	}
}
