package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes a single JSON document from a reader. Trailing
// data after the first value is rejected.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	decoder := json.NewDecoder(r)
	var obj T
	if err := decoder.Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, eris.New("json: unexpected data after top-level value")
	}
	return &obj, nil
}
