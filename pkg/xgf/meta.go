package xgf

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Term is one weighted functional of the evaluated combination.
type Term struct {
	ID     int     `json:"id"`
	Name   string  `json:"name,omitempty"`
	Weight float64 `json:"weight"`
	Omega  float64 `json:"omega,omitempty"`
}

// Meta describes the grid and, when an output section is present, how it
// was produced.
type Meta struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Comment string    `json:"comment,omitempty"`

	NP    int `json:"np"`
	NComp int `json:"ncomp"`
	Spin  int `json:"spin"`

	Deriv int    `json:"deriv,omitempty"`
	NVar  int    `json:"nvar,omitempty"`
	Terms []Term `json:"terms,omitempty"`
}

// Validate checks the grid shape fields.
func (m *Meta) Validate() error {
	if m.NP < 0 {
		return fmt.Errorf("%w: negative point count", ErrCorruptFile)
	}
	if m.NComp < 1 || m.NComp > 6 {
		return fmt.Errorf("%w: component count %d", ErrCorruptFile, m.NComp)
	}
	if m.Spin != 1 && m.Spin != 2 {
		return fmt.Errorf("%w: spin %d", ErrCorruptFile, m.Spin)
	}
	return nil
}

func encodeMeta(m Meta) ([]byte, error) {
	return json.Marshal(m)
}

func decodeMeta(b []byte) (Meta, error) {
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, fmt.Errorf("%w: meta: %v", ErrCorruptFile, err)
	}
	return m, m.Validate()
}
