package catalog

import (
	"context"
	"sort"

	"dicomdex/internal/dataset"
	"dicomdex/internal/dicomtag"
)

// LoadInstanceHeader resolves the instance's file and caches its header.
// The handle keeps a single cached header, so any previous one is
// dropped first, including when the instance is unknown.
func (d *Database) LoadInstanceHeader(ctx context.Context, sopUID string) error {
	if err := d.requireOpen(); err != nil {
		return err
	}

	d.header = nil

	path, err := d.FileForInstance(ctx, sopUID)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	return d.LoadFileHeader(path)
}

// LoadFileHeader caches the header of the DICOM file at path. The file
// does not have to be indexed, and the handle does not have to be open.
func (d *Database) LoadFileHeader(path string) error {
	d.header = nil

	ds, err := dataset.FromFileMetadata(path)
	if err != nil {
		d.lastErr = err.Error()
		return err
	}

	d.header = ds
	return nil
}

// HeaderKeys lists the cached header's tags as sorted GGGG,EEEE keys,
// empty when no header is cached.
func (d *Database) HeaderKeys() []string {
	if d.header == nil {
		return []string{}
	}

	tags := d.header.Tags()
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		keys = append(keys, t.Key())
	}
	sort.Strings(keys)
	return keys
}

// HeaderValue returns the cached header's value for a GGGG,EEEE key,
// empty for absent tags, unparseable keys, or no cached header.
func (d *Database) HeaderValue(key string) string {
	if d.header == nil {
		return ""
	}

	t, err := dicomtag.Parse(key)
	if err != nil {
		return ""
	}
	return d.header.GetString(t)
}

// InstanceValue reads one tag, named by a GGGG,EEEE key, from the
// instance's file. The cached header is not consulted or disturbed.
func (d *Database) InstanceValue(ctx context.Context, sopUID, key string) (string, error) {
	t, err := dicomtag.Parse(key)
	if err != nil {
		return "", err
	}
	return d.InstanceValueTag(ctx, sopUID, t.Group, t.Element)
}

// InstanceValueTag is InstanceValue with the tag given as group and
// element numbers.
func (d *Database) InstanceValueTag(ctx context.Context, sopUID string, group, element uint16) (string, error) {
	if err := d.requireOpen(); err != nil {
		return "", err
	}

	path, err := d.FileForInstance(ctx, sopUID)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	return fileTagValue(path, dicomtag.Tag{Group: group, Element: element})
}

// FileValue reads one tag, named by a GGGG,EEEE key, straight from a
// DICOM file. The handle does not have to be open.
func (d *Database) FileValue(path, key string) (string, error) {
	t, err := dicomtag.Parse(key)
	if err != nil {
		return "", err
	}
	return d.FileValueTag(path, t.Group, t.Element)
}

// FileValueTag is FileValue with the tag given as group and element
// numbers.
func (d *Database) FileValueTag(path string, group, element uint16) (string, error) {
	return fileTagValue(path, dicomtag.Tag{Group: group, Element: element})
}

func fileTagValue(path string, t dicomtag.Tag) (string, error) {
	ds, err := dataset.FromFileMetadata(path)
	if err != nil {
		return "", err
	}
	return ds.GetString(t), nil
}
