// Package dataset adapts DICOM objects from the parsing library to the
// tag-keyed access the catalog consumes.
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"

	"dicomdex/internal/dicomtag"
)

// Dataset holds one DICOM object's tag/value pairs.
type Dataset struct {
	ds dicom.Dataset
}

// FromFile parses a complete DICOM file.
func FromFile(path string) (*Dataset, error) {
	return parseFile(path)
}

// FromFileMetadata parses a DICOM file with pixel data skipped, for
// callers that only need header fields.
func FromFileMetadata(path string) (*Dataset, error) {
	return parseFile(path, dicom.SkipPixelData())
}

func parseFile(path string, opts ...dicom.ParseOption) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dicom file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stating dicom file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing dicom file: %w", err)
	}

	return &Dataset{ds: ds}, nil
}

// FromBytes parses a complete DICOM object held in memory.
func FromBytes(b []byte) (*Dataset, error) {
	ds, err := dicom.Parse(bytes.NewReader(b), int64(len(b)), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing dicom bytes: %w", err)
	}
	return &Dataset{ds: ds}, nil
}

// GetString returns the first string rendering of the tag's value, with
// trailing padding trimmed, or "" when the tag is absent.
func (d *Dataset) GetString(t dicomtag.Tag) string {
	elem, err := d.ds.FindElementByTag(t.Lib())
	if err != nil || elem.Value == nil {
		return ""
	}
	return strings.TrimRight(renderValue(elem.Value.GetValue()), " \x00")
}

// Has reports whether the tag is present.
func (d *Dataset) Has(t dicomtag.Tag) bool {
	_, err := d.ds.FindElementByTag(t.Lib())
	return err == nil
}

// Tags lists every element's tag in parse order.
func (d *Dataset) Tags() []dicomtag.Tag {
	tags := make([]dicomtag.Tag, 0, len(d.ds.Elements))
	for _, elem := range d.ds.Elements {
		tags = append(tags, dicomtag.FromLib(elem.Tag))
	}
	return tags
}

func renderValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []string:
		if len(value) == 0 {
			return ""
		}
		return value[0]
	case string:
		return value
	case []int:
		if len(value) == 0 {
			return ""
		}
		return strconv.Itoa(value[0])
	default:
		return fmt.Sprintf("%v", value)
	}
}
