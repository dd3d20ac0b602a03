// Package xgf implements the XC Grid File format.
//
// An XGF file is a single memory-mappable container holding a density grid,
// the functional combination evaluated on it and the resulting unified
// derivative tensor. All integers and floats are little endian.
//
// Layout: fixed header, 64-byte aligned section payloads, then the section
// directory. The header is written last so a truncated file never validates.
package xgf

import "encoding/binary"

const (
	// Magic is "XGF\0".
	Magic = "XGF\x00"

	// CurrentMajor changes only with breaking layout changes.
	CurrentMajor uint16 = 1
	// CurrentMinor changes when optional sections or meta fields are added.
	CurrentMinor uint16 = 0

	headerSize  = 48
	sectionSize = 32
	align       = 64
)

// SectionType identifies a section payload.
type SectionType uint32

const (
	// SectionMeta holds the JSON encoded Meta.
	SectionMeta SectionType = 0x0001
	// SectionDensityUp holds the up (or spin-free) channel, NComp*NP float64.
	SectionDensityUp SectionType = 0x0002
	// SectionDensityDown holds the down channel of polarized grids.
	SectionDensityDown SectionType = 0x0003
	// SectionOutput holds the unified output tensor.
	SectionOutput SectionType = 0x0004
)

func (t SectionType) String() string {
	switch t {
	case SectionMeta:
		return "meta"
	case SectionDensityUp:
		return "density_up"
	case SectionDensityDown:
		return "density_down"
	case SectionOutput:
		return "output"
	}
	return "unknown"
}

// Header is the fixed file header.
type Header struct {
	Magic            [4]byte
	Major            uint16
	Minor            uint16
	HeaderSize       uint32
	SectionCount     uint32
	SectionDirOffset uint64
	FileSize         uint64
	Flags            uint64
	Reserved         uint64
}

// Valid reports whether the magic and sizes are plausible.
func (h *Header) Valid() bool {
	return string(h.Magic[:]) == Magic && h.HeaderSize >= headerSize && h.SectionCount > 0
}

// Compatible reports whether this package can read the file.
func (h *Header) Compatible() bool { return h.Major == CurrentMajor }

// Section is one directory entry.
type Section struct {
	Type    SectionType
	Version uint32
	Offset  uint64
	Size    uint64
	Count   uint64
}

// End is the offset one past the payload.
func (s Section) End() uint64 { return s.Offset + s.Size }

var le = binary.LittleEndian

func encodeHeader(b []byte, h Header) {
	copy(b[0:4], h.Magic[:])
	le.PutUint16(b[4:], h.Major)
	le.PutUint16(b[6:], h.Minor)
	le.PutUint32(b[8:], h.HeaderSize)
	le.PutUint32(b[12:], h.SectionCount)
	le.PutUint64(b[16:], h.SectionDirOffset)
	le.PutUint64(b[24:], h.FileSize)
	le.PutUint64(b[32:], h.Flags)
	le.PutUint64(b[40:], h.Reserved)
}

func decodeHeader(b []byte) Header {
	var h Header
	copy(h.Magic[:], b[0:4])
	h.Major = le.Uint16(b[4:])
	h.Minor = le.Uint16(b[6:])
	h.HeaderSize = le.Uint32(b[8:])
	h.SectionCount = le.Uint32(b[12:])
	h.SectionDirOffset = le.Uint64(b[16:])
	h.FileSize = le.Uint64(b[24:])
	h.Flags = le.Uint64(b[32:])
	h.Reserved = le.Uint64(b[40:])
	return h
}

func encodeSection(b []byte, s Section) {
	le.PutUint32(b[0:], uint32(s.Type))
	le.PutUint32(b[4:], s.Version)
	le.PutUint64(b[8:], s.Offset)
	le.PutUint64(b[16:], s.Size)
	le.PutUint64(b[24:], s.Count)
}

func decodeSection(b []byte) Section {
	return Section{
		Type:    SectionType(le.Uint32(b[0:])),
		Version: le.Uint32(b[4:]),
		Offset:  le.Uint64(b[8:]),
		Size:    le.Uint64(b[16:]),
		Count:   le.Uint64(b[24:]),
	}
}
