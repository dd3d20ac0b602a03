package xgf

import "errors"

var (
	ErrInvalidMagic     = errors.New("invalid XGF magic")
	ErrUnsupportedMajor = errors.New("unsupported XGF major version")
	ErrCorruptFile      = errors.New("corrupt XGF file")
	ErrNoSection        = errors.New("section not present")
	ErrFinalised        = errors.New("xgf: writer already finalised")
	ErrDuplicateSection = errors.New("xgf: duplicate section type")
)
