package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

// ---------------------------------------------------------------------------
// Attribute types
// ---------------------------------------------------------------------------

// AttributeType is the PIM-side backend type of an attribute.
type AttributeType string

const (
	AttributeTypeIdentifier   AttributeType = "identifier"
	AttributeTypeText         AttributeType = "text"
	AttributeTypeTextarea     AttributeType = "textarea"
	AttributeTypeSimpleselect AttributeType = "simpleselect"
	AttributeTypeMultiselect  AttributeType = "multiselect"
	AttributeTypePrice        AttributeType = "price"
	AttributeTypeNumber       AttributeType = "number"
	AttributeTypeBoolean      AttributeType = "boolean"
	AttributeTypeDate         AttributeType = "date"
	AttributeTypeFile         AttributeType = "file"
	AttributeTypeImage        AttributeType = "image"
	AttributeTypeMetric       AttributeType = "metric"
)

// IsValid returns true for a known attribute type.
func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeIdentifier, AttributeTypeText, AttributeTypeTextarea,
		AttributeTypeSimpleselect, AttributeTypeMultiselect, AttributeTypePrice,
		AttributeTypeNumber, AttributeTypeBoolean, AttributeTypeDate,
		AttributeTypeFile, AttributeTypeImage, AttributeTypeMetric:
		return true
	}
	return false
}

// String returns the type code.
func (t AttributeType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// Attribute
// ---------------------------------------------------------------------------

// AttributeTranslation is the label of an attribute in one locale.
type AttributeTranslation struct {
	Locale string
	Label  string
}

// Attribute is a PIM attribute definition.
type Attribute struct {
	Code         string
	Type         AttributeType
	Localizable  bool
	Required     bool
	Unique       bool
	Translations []AttributeTranslation
}

// Translation returns the label for the given locale. Translations with an
// empty label are skipped. The second return is false when no usable label
// exists for the locale.
func (a Attribute) Translation(locale string) (string, bool) {
	for _, tr := range a.Translations {
		if tr.Label == "" {
			continue
		}
		if localeEqual(tr.Locale, locale) {
			return tr.Label, true
		}
	}
	return "", false
}

// localeEqual compares two locale codes tolerantly: a case-insensitive match
// first, then canonical BCP 47 equality so "en_US" and "en-us" compare equal.
func localeEqual(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	ta, errA := language.Parse(strings.ReplaceAll(a, "_", "-"))
	tb, errB := language.Parse(strings.ReplaceAll(b, "_", "-"))
	if errA != nil || errB != nil {
		return false
	}
	return ta == tb
}
