package dataset

import (
	"bytes"
	"fmt"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicomdex/internal/dicomtag"
)

const (
	transferSyntaxExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	secondaryCaptureSOPClassUID          = "1.2.840.10008.5.1.4.1.1.7"
)

// New returns an empty dataset to be filled with Set, for partial
// objects and fixtures.
func New() *Dataset {
	return &Dataset{}
}

// Set adds or replaces a string-valued element.
func (d *Dataset) Set(t dicomtag.Tag, value string) error {
	elem, err := dicom.NewElement(t.Lib(), []string{value})
	if err != nil {
		return fmt.Errorf("building element %s: %w", t, err)
	}
	for i, existing := range d.ds.Elements {
		if existing.Tag == elem.Tag {
			d.ds.Elements[i] = elem
			return nil
		}
	}
	d.ds.Elements = append(d.ds.Elements, elem)
	return nil
}

// Bytes serializes the dataset as a part-10 DICOM stream, filling in the
// mandatory file meta elements when absent.
func (d *Dataset) Bytes() ([]byte, error) {
	if err := d.ensureFileMeta(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dicom.Write(&buf, d.ds); err != nil {
		return nil, fmt.Errorf("encoding dicom dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFile writes the serialized dataset to path.
func (d *Dataset) SaveFile(path string) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing dicom file: %w", err)
	}
	return nil
}

func (d *Dataset) ensureFileMeta() error {
	sopClass := d.GetString(dicomtag.FromLib(tag.SOPClassUID))
	if sopClass == "" {
		sopClass = secondaryCaptureSOPClassUID
	}

	required := []struct {
		tag   tag.Tag
		value string
	}{
		{tag.MediaStorageSOPClassUID, sopClass},
		{tag.MediaStorageSOPInstanceUID, d.GetString(dicomtag.FromLib(tag.SOPInstanceUID))},
		{tag.TransferSyntaxUID, transferSyntaxExplicitVRLittleEndian},
	}
	for _, req := range required {
		if d.Has(dicomtag.FromLib(req.tag)) {
			continue
		}
		if err := d.Set(dicomtag.FromLib(req.tag), req.value); err != nil {
			return err
		}
	}
	return nil
}
