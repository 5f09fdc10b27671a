package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/tessera/pkg/errors"
)

type document struct {
	Name      string      `json:"name,omitempty"`
	Width     int         `json:"width"`
	Depth     int         `json:"depth"`
	Generator string      `json:"generator,omitempty"`
	Seed      uint64      `json:"seed,omitempty"`
	Elements  []Element   `json:"elements"`
	Relations [][]float64 `json:"relations"`
}

// WriteJSON encodes a dataset as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(d *Dataset, w io.Writer) error {
	out := document{
		Name:      d.Name,
		Width:     d.Width,
		Depth:     d.Depth,
		Generator: d.Generator,
		Seed:      d.Seed,
		Elements:  d.Elements,
	}
	if d.Relations != nil {
		r, _ := d.Relations.Dims()
		out.Relations = make([][]float64, r)
		for i := range r {
			out.Relations[i] = mat.Row(nil, i, d.Relations)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a dataset to a JSON file at path.
func ExportJSON(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ReadJSON decodes and validates a JSON dataset from r. Ragged relation rows
// and misplaced elements are reported as INVALID_DATASET errors wrapping
// [ErrShape]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}

	d := &Dataset{
		Name:      doc.Name,
		Width:     doc.Width,
		Depth:     doc.Depth,
		Generator: doc.Generator,
		Seed:      doc.Seed,
		Elements:  doc.Elements,
	}
	if n := len(doc.Relations); n > 0 {
		data := make([]float64, 0, n*n)
		for i, row := range doc.Relations {
			if len(row) != n {
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, ErrShape,
					"relation row %d has %d values, want %d", i, len(row), n)
			}
			data = append(data, row...)
		}
		d.Relations = mat.NewDense(n, n, data)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ImportJSON reads a JSON dataset file at path.
func ImportJSON(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Marshal returns the JSON encoding of d.
func Marshal(d *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a JSON dataset.
func Unmarshal(data []byte) (*Dataset, error) {
	return ReadJSON(bytes.NewReader(data))
}
