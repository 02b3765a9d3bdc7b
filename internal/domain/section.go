package domain

import (
	"strings"
)

// Section identifies a content area of the site.
// Countries, Outdoors and Guides hold topics; Quotes is the pseudo-section
// whose records live in the quote table.
type Section int

// Sections, in navigation order.
const (
	SectionUnknown Section = iota
	SectionCountries
	SectionOutdoors
	SectionGuides
	SectionQuotes
)

var sectionNames = map[Section]string{
	SectionCountries: "countries",
	SectionOutdoors:  "outdoors",
	SectionGuides:    "guides",
	SectionQuotes:    "quotes",
}

// TopicSections lists the sections backed by the topic table.
func TopicSections() []Section {
	return []Section{SectionCountries, SectionOutdoors, SectionGuides}
}

// ParseSection resolves a wire name to a Section.
func ParseSection(s string) (Section, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for sec, n := range sectionNames {
		if n == name {
			return sec, nil
		}
	}

	if name == "" {
		return SectionUnknown, NewValidationError("section", "is required")
	}

	return SectionUnknown, NewValidationError("section", "unknown section "+strings.TrimSpace(s))
}

// ParseTopicSection is ParseSection restricted to topic sections.
func ParseTopicSection(s string) (Section, error) {
	sec, err := ParseSection(s)
	if err != nil {
		return sec, err
	}

	if !sec.IsTopic() {
		return SectionUnknown, NewValidationError("section", sec.String()+" is not a topic section")
	}

	return sec, nil
}

func (s Section) String() string {
	if n, ok := sectionNames[s]; ok {
		return n
	}

	return "unknown"
}

// IsTopic reports whether records of s are topics.
func (s Section) IsTopic() bool {
	return s == SectionCountries || s == SectionOutdoors || s == SectionGuides
}

// MarshalText implements encoding.TextMarshaler.
func (s Section) MarshalText() ([]byte, error) {
	if _, ok := sectionNames[s]; !ok {
		return nil, NewValidationError("section", "unknown section")
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Section) UnmarshalText(b []byte) error {
	sec, err := ParseSection(string(b))
	if err != nil {
		return err
	}

	*s = sec

	return nil
}
