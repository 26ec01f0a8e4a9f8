package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Section identifies which body branch of the dashboard is rendered.
type Section string

const (
	// SectionHome renders the static illustrative image.
	SectionHome Section = "Home"
	// SectionShade renders the price panel. It is the default section.
	SectionShade Section = "Shade"
)

// ErrUnknownSection is returned when a section tag is neither Home nor Shade.
var ErrUnknownSection = errors.New("unknown section")

// Valid reports whether s is one of the recognized section tags.
func (s Section) Valid() bool {
	return s == SectionHome || s == SectionShade
}

// ParseSection converts a tag into a Section. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseSection(tag string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "home":
		return SectionHome, nil
	case "shade":
		return SectionShade, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, tag)
	}
}
