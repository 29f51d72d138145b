package domain

import "strings"

// Subsection is one structural unit inside a contract section, as
// proposed by the agent and editable by the user before drafting.
type Subsection struct {
	Heading    string
	Definition string
}

// Section is a structural unit of the target contract. A section always
// keeps at least one subsection; RemoveSubsection enforces the floor.
type Section struct {
	Heading     string
	Purpose     string
	Subsections []Subsection
}

func (s *Section) AddSubsection(sub Subsection) {
	s.Subsections = append(s.Subsections, sub)
}

func (s *Section) RemoveSubsection(index int) error {
	if index < 0 || index >= len(s.Subsections) {
		return ErrSubsectionNotFound
	}
	if len(s.Subsections) <= 1 {
		return ErrSubsectionFloor
	}
	s.Subsections = append(s.Subsections[:index], s.Subsections[index+1:]...)
	return nil
}

// CloneSections deep-copies a section list so callers can hand out
// snapshots without sharing backing arrays with the live state.
func CloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s
		out[i].Subsections = append([]Subsection(nil), s.Subsections...)
	}
	return out
}

// SectionHeadings returns the display order of a section list.
func SectionHeadings(sections []Section) []string {
	headings := make([]string, 0, len(sections))
	for _, s := range sections {
		headings = append(headings, s.Heading)
	}
	return headings
}

func findSection(sections []Section, heading string) int {
	for i := range sections {
		if strings.EqualFold(sections[i].Heading, heading) {
			return i
		}
	}
	return -1
}
