// Package schema recognises the two extraction shapes returned by the
// language model and decodes them into a tagged union.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type Tag string

const (
	TagLegacy  Tag = "legacy"
	TagCustom  Tag = "custom"
	TagUnknown Tag = "unknown"
)

// ErrUnknownSchema is returned for shapes that match neither fingerprint.
var ErrUnknownSchema = errors.New("unrecognized extraction schema")

// Extraction is implemented by *LegacyCV and *CustomCV only.
type Extraction interface {
	Tag() Tag
	isExtraction()
}

var (
	customKeys = []string{"name", "headline", "years_experience"}
	legacyKeys = []string{"personalInfo", "workExperience", "extractedText"}
)

// Detect fingerprints raw by its top-level keys. Key presence is enough, the
// values may be null or empty.
func Detect(raw []byte) Tag {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return TagUnknown
	}
	switch {
	case hasAll(fields, customKeys):
		return TagCustom
	case hasAll(fields, legacyKeys):
		return TagLegacy
	default:
		return TagUnknown
	}
}

// Classify is Detect with legacy as the default. It is used for rows stored
// before the schema tag was persisted.
func Classify(raw []byte) Tag {
	if tag := Detect(raw); tag != TagUnknown {
		return tag
	}
	return TagLegacy
}

// Parse detects the shape of raw and decodes it. Unrecognized shapes fail
// with ErrUnknownSchema.
func Parse(raw []byte) (Extraction, error) {
	return Decode(raw, Detect(raw))
}

// Decode decodes raw as the shape named by tag.
func Decode(raw []byte, tag Tag) (Extraction, error) {
	var ext Extraction
	switch tag {
	case TagCustom:
		ext = &CustomCV{}
	case TagLegacy:
		ext = &LegacyCV{}
	default:
		return nil, fmt.Errorf("%w (keys: %v)", ErrUnknownSchema, Keys(raw))
	}
	if err := json.Unmarshal(raw, ext); err != nil {
		return nil, fmt.Errorf("failed to decode %s extraction: %w", tag, err)
	}
	return ext, nil
}

// Keys lists the top-level keys of raw, sorted. Used for diagnostics.
func Keys(raw []byte) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hasAll(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return false
		}
	}
	return true
}
