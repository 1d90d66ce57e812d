// Package thumbnail defines the pluggable preview generator contract.
package thumbnail

import "dicomdex/internal/dataset"

// Generator produces a preview image for a DICOM object. The catalog
// stores whatever bytes the generator returns and is agnostic to the
// image format.
type Generator interface {
	Generate(ds *dataset.Dataset) ([]byte, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ds *dataset.Dataset) ([]byte, error)

func (f GeneratorFunc) Generate(ds *dataset.Dataset) ([]byte, error) {
	return f(ds)
}
