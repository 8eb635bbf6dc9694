// internal/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"oligoscreen/core/screen"
	"oligoscreen/pkg/api"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSON writes r as a single v1 document (pretty-indented).
func WriteJSON(w io.Writer, r *screen.Result) error {
	return EncodePretty(w, ToAPI(r))
}

// ReadJSON decodes a v1 document. Unknown fields are ignored so newer
// optional additions still load.
func ReadJSON(rd io.Reader) (*screen.Result, error) {
	var v api.ScreenResultV1
	if err := json.NewDecoder(rd).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return FromAPI(v)
}

// LoadJSON reads a result file written by SaveJSON or WriteJSON.
func LoadJSON(path string) (*screen.Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	r, err := ReadJSON(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// SaveJSON writes r to path through a temporary file so readers never see a
// partial document.
func SaveJSON(path string, r *screen.Result) error {
	tmp := path + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteJSON(fh, r); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
