package xgf

import (
	"errors"
	"io"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Writer builds an XGF file. The header is reserved up front and patched by
// Finalise. A Writer is safe for concurrent use; sections are appended in
// call order.
type Writer struct {
	f        *os.File
	sections []Section
	seen     map[SectionType]struct{}
	closed   bool
	buf      []byte

	mu sync.Mutex
}

// NewWriter truncates f and reserves the header.
func NewWriter(f *os.File) (*Writer, error) {
	if f == nil {
		return nil, errors.New("xgf: nil file")
	}
	if err := f.Truncate(0); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	w := &Writer{f: f, seen: make(map[SectionType]struct{}), buf: make([]byte, 64*1024)}
	if err := w.writeZeros(headerSize); err != nil {
		return nil, err
	}
	return w, nil
}

// WriteMeta stores m, assigning an ID and creation time when unset.
func (w *Writer) WriteMeta(m Meta) (Meta, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Created.IsZero() {
		m.Created = time.Now().UTC()
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	b, err := encodeMeta(m)
	if err != nil {
		return m, err
	}
	return m, w.writeSection(SectionMeta, b, uint64(len(b)))
}

// WriteFloats stores xs as a float64 section.
func (w *Writer) WriteFloats(t SectionType, xs []float64) error {
	if t == SectionMeta {
		return errors.New("xgf: meta section is not numeric")
	}
	b := make([]byte, 8*len(xs))
	for i, x := range xs {
		le.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return w.writeSection(t, b, uint64(len(xs)))
}

func (w *Writer) writeSection(t SectionType, payload []byte, count uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrFinalised
	}
	if _, dup := w.seen[t]; dup {
		return ErrDuplicateSection
	}
	if err := w.alignTo(align); err != nil {
		return err
	}
	off, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := writeFull(w.f, payload); err != nil {
		return err
	}
	w.sections = append(w.sections, Section{
		Type:    t,
		Version: 1,
		Offset:  uint64(off),
		Size:    uint64(len(payload)),
		Count:   count,
	})
	w.seen[t] = struct{}{}
	return nil
}

// Finalise writes the section directory and the header. The writer cannot
// be used afterwards.
func (w *Writer) Finalise() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrFinalised
	}
	w.closed = true
	if len(w.sections) == 0 {
		return errors.New("xgf: no sections written")
	}
	slices.SortFunc(w.sections, func(a, b Section) int { return int(a.Type) - int(b.Type) })

	if err := w.alignTo(8); err != nil {
		return err
	}
	dirOff, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	var sb [sectionSize]byte
	for _, s := range w.sections {
		encodeSection(sb[:], s)
		if err := writeFull(w.f, sb[:]); err != nil {
			return err
		}
	}
	size, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := w.f.Truncate(size); err != nil {
		return err
	}

	h := Header{
		Major:            CurrentMajor,
		Minor:            CurrentMinor,
		HeaderSize:       headerSize,
		SectionCount:     uint32(len(w.sections)),
		SectionDirOffset: uint64(dirOff),
		FileSize:         uint64(size),
	}
	copy(h.Magic[:], Magic)
	var hb [headerSize]byte
	encodeHeader(hb[:], h)
	if _, err := w.f.WriteAt(hb[:], 0); err != nil {
		return err
	}
	return w.f.Sync()
}

func (w *Writer) alignTo(n int64) error {
	pos, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if mod := pos % n; mod != 0 {
		return w.writeZeros(int(n - mod))
	}
	return nil
}

func (w *Writer) writeZeros(n int) error {
	clear(w.buf)
	for n > 0 {
		k := min(n, len(w.buf))
		if err := writeFull(w.f, w.buf[:k]); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

func writeFull(f *os.File, p []byte) error {
	for len(p) > 0 {
		n, err := f.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Create writes a complete container to path: meta, density channels and,
// when non-nil, the output tensor.
func Create(path string, m Meta, up, down, output []float64) (Meta, error) {
	f, err := os.Create(path)
	if err != nil {
		return m, err
	}
	defer func() { _ = f.Close() }()

	w, err := NewWriter(f)
	if err != nil {
		return m, err
	}
	if m, err = w.WriteMeta(m); err != nil {
		return m, err
	}
	if err := w.WriteFloats(SectionDensityUp, up); err != nil {
		return m, err
	}
	if down != nil {
		if err := w.WriteFloats(SectionDensityDown, down); err != nil {
			return m, err
		}
	}
	if output != nil {
		if err := w.WriteFloats(SectionOutput, output); err != nil {
			return m, err
		}
	}
	return m, w.Finalise()
}
