// Package extract turns GeoJSON documents and zipped KML files into
// normalized polygon records.
package extract

import (
	"fmt"
	"time"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

// Extractor builds polygon records from parsed input. It holds no state
// besides its clock; every call is independent.
type Extractor struct {
	clock polygon.Clock
}

// NewExtractor creates an Extractor. A nil clock means the system clock.
func NewExtractor(clock polygon.Clock) *Extractor {
	if clock == nil {
		clock = polygon.SystemClock
	}
	return &Extractor{clock: clock}
}

// today reads the clock once so a whole file shares one date stamp.
func (e *Extractor) today() time.Time {
	return e.clock()
}

// placeholderName is the name given to polygons whose source has none.
func placeholderName(index int) string {
	return fmt.Sprintf("Polygon %d", index+1)
}
