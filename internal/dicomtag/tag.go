// Package dicomtag resolves textual DICOM tag identifiers to canonical
// group/element pairs and back.
package dicomtag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// Tag identifies a single DICOM data element.
type Tag struct {
	Group   uint16
	Element uint16
}

// Key returns the canonical zero-filled upper-hex "GGGG,EEEE" form.
func (t Tag) Key() string {
	return fmt.Sprintf("%04X,%04X", t.Group, t.Element)
}

func (t Tag) String() string {
	return t.Key()
}

// Lib converts to the parsing library's tag type.
func (t Tag) Lib() tag.Tag {
	return tag.Tag{Group: t.Group, Element: t.Element}
}

// FromLib converts from the parsing library's tag type.
func FromLib(t tag.Tag) Tag {
	return Tag{Group: t.Group, Element: t.Element}
}

// Parse resolves a textual tag identifier. Accepted forms: "GGGG,EEEE"
// hex with optional surrounding parens, a bare eight-digit "GGGGEEEE"
// hex string, or a dictionary keyword such as "PatientID".
func Parse(key string) (Tag, error) {
	s := strings.TrimSpace(key)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	if s == "" {
		return Tag{}, fmt.Errorf("empty tag")
	}

	if t, ok := parseHex(s); ok {
		return t, nil
	}

	if info, err := tag.FindByName(s); err == nil {
		return FromLib(info.Tag), nil
	}

	return Tag{}, fmt.Errorf("unrecognized tag %q", key)
}

// Split is Parse reported as separate group/element values with an ok
// flag instead of an error.
func Split(key string) (group, element uint16, ok bool) {
	t, err := Parse(key)
	if err != nil {
		return 0, 0, false
	}
	return t.Group, t.Element, true
}

func parseHex(s string) (Tag, bool) {
	var groupPart, elementPart string
	switch {
	case strings.ContainsRune(s, ','):
		before, after, _ := strings.Cut(s, ",")
		groupPart = strings.TrimSpace(before)
		elementPart = strings.TrimSpace(after)
	case len(s) == 8:
		groupPart, elementPart = s[:4], s[4:]
	default:
		return Tag{}, false
	}

	group, err := strconv.ParseUint(groupPart, 16, 16)
	if err != nil {
		return Tag{}, false
	}
	element, err := strconv.ParseUint(elementPart, 16, 16)
	if err != nil {
		return Tag{}, false
	}
	return Tag{Group: uint16(group), Element: uint16(element)}, true
}
