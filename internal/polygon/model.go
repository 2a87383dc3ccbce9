// Package polygon holds the polygon record model, the naming rules applied to
// extracted polygons, and small geometry helpers.
package polygon

// Coordinate is a [longitude, latitude] pair.
type Coordinate [2]float64

// Lon returns the longitude component.
func (c Coordinate) Lon() float64 { return c[0] }

// Lat returns the latitude component.
func (c Coordinate) Lat() float64 { return c[1] }

// Record is one extracted polygon with its normalized label.
type Record struct {
	ID            string       `json:"id" yaml:"id"`
	FormattedName string       `json:"formatted_name" yaml:"formatted_name"`
	Coordinates   []Coordinate `json:"coordinates" yaml:"coordinates,flow"`
	OriginalName  string       `json:"original_name,omitempty" yaml:"original_name,omitempty"`
}

// Result is the outcome of processing a single input file.
type Result struct {
	FileName string   `json:"file_name" yaml:"file_name"`
	Polygons []Record `json:"polygons" yaml:"polygons"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
