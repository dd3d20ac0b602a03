package xgf

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// File is an opened XGF container. Payload slices alias Data and are only
// valid until Close.
type File struct {
	Data     []byte
	Header   Header
	Sections []Section
	mmapped  bool
}

// Open maps path read-only and validates it, falling back to ReadAt when
// mmap is unavailable.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size, err := checkedSize(st.Size())
	if err != nil {
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		xf, perr := parse(data, true)
		if perr != nil {
			_ = unix.Munmap(data)
			return nil, perr
		}
		return xf, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parse(data, false)
}

// OpenReaderAt loads a container from r without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	n, err := checkedSize(size)
	if err != nil {
		return nil, err
	}
	data, err := readAllAt(r, n)
	if err != nil {
		return nil, err
	}
	return parse(data, false)
}

func checkedSize(size int64) (int, error) {
	if size < headerSize || size > int64(math.MaxInt) {
		return 0, fmt.Errorf("%w: size %d", ErrCorruptFile, size)
	}
	return int(size), nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int
	for off < size {
		n, err := r.ReadAt(out[off:], int64(off))
		off += n
		if err == io.EOF && off == size {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parse(data []byte, mmapped bool) (*File, error) {
	if len(data) < headerSize {
		return nil, ErrCorruptFile
	}
	hdr := decodeHeader(data)
	if string(hdr.Magic[:]) != Magic {
		return nil, ErrInvalidMagic
	}
	if !hdr.Compatible() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMajor, hdr.Major)
	}
	if !hdr.Valid() || hdr.FileSize != uint64(len(data)) || uint64(hdr.HeaderSize) > hdr.FileSize {
		return nil, fmt.Errorf("%w: bad header", ErrCorruptFile)
	}

	dirStart := hdr.SectionDirOffset
	dirEnd := dirStart + uint64(hdr.SectionCount)*sectionSize
	if dirStart < uint64(hdr.HeaderSize) || dirEnd < dirStart || dirEnd > hdr.FileSize {
		return nil, fmt.Errorf("%w: section directory out of bounds", ErrCorruptFile)
	}

	sections := make([]Section, hdr.SectionCount)
	for i := range sections {
		off := int(dirStart) + i*sectionSize
		s := decodeSection(data[off : off+sectionSize])
		end := s.End()
		switch {
		case end < s.Offset || end > hdr.FileSize:
			return nil, fmt.Errorf("%w: section %s out of bounds", ErrCorruptFile, s.Type)
		case s.Offset < uint64(hdr.HeaderSize):
			return nil, fmt.Errorf("%w: section %s overlaps header", ErrCorruptFile, s.Type)
		case s.Offset < dirEnd && dirStart < end:
			return nil, fmt.Errorf("%w: section %s overlaps directory", ErrCorruptFile, s.Type)
		case s.Offset%align != 0:
			return nil, fmt.Errorf("%w: section %s not %d-byte aligned", ErrCorruptFile, s.Type, align)
		}
		sections[i] = s
	}

	return &File{Data: data, Header: hdr, Sections: sections, mmapped: mmapped}, nil
}

// Close releases the mapping, if any.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.Sections = nil
	f.mmapped = false
	return err
}

// Section returns the directory entry of t.
func (f *File) Section(t SectionType) (Section, bool) {
	for _, s := range f.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// SectionData returns the raw payload of t without copying.
func (f *File) SectionData(t SectionType) ([]byte, error) {
	s, ok := f.Section(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSection, t)
	}
	return f.Data[s.Offset:s.End()], nil
}

// Meta decodes the meta section.
func (f *File) Meta() (Meta, error) {
	b, err := f.SectionData(SectionMeta)
	if err != nil {
		return Meta{}, err
	}
	return decodeMeta(b)
}

// Floats decodes a float64 section into a new slice.
func (f *File) Floats(t SectionType) ([]float64, error) {
	s, ok := f.Section(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSection, t)
	}
	if s.Size%8 != 0 || s.Size/8 != s.Count {
		return nil, fmt.Errorf("%w: section %s holds %d bytes for %d values", ErrCorruptFile, t, s.Size, s.Count)
	}
	b := f.Data[s.Offset:s.End()]
	out := make([]float64, s.Count)
	for i := range out {
		out[i] = math.Float64frombits(le.Uint64(b[8*i:]))
	}
	return out, nil
}
