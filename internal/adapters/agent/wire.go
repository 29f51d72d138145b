package agent

import "github.com/draftforge/contract-draft-cli/internal/domain"

// Wire shapes shared by the chat, intake, and catalog endpoints.

type wireSection struct {
	SectionHeading string           `json:"section_heading"`
	SectionPurpose string           `json:"section_purpose"`
	Subsections    []wireSubsection `json:"subsections"`
}

type wireSubsection struct {
	SubsectionHeading    string `json:"subsection_heading"`
	SubsectionDefinition string `json:"subsection_definition"`
}

type wireUserContext struct {
	UserID     string `json:"user_id"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Location   string `json:"location"`
	Language   string `json:"language"`
}

func sectionsToWire(sections []domain.Section) []wireSection {
	out := make([]wireSection, 0, len(sections))
	for _, s := range sections {
		ws := wireSection{
			SectionHeading: s.Heading,
			SectionPurpose: s.Purpose,
		}
		for _, sub := range s.Subsections {
			ws.Subsections = append(ws.Subsections, wireSubsection{
				SubsectionHeading:    sub.Heading,
				SubsectionDefinition: sub.Definition,
			})
		}
		out = append(out, ws)
	}
	return out
}

func sectionsFromWire(sections []wireSection) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, ws := range sections {
		s := domain.Section{
			Heading: ws.SectionHeading,
			Purpose: ws.SectionPurpose,
		}
		for _, sub := range ws.Subsections {
			s.Subsections = append(s.Subsections, domain.Subsection{
				Heading:    sub.SubsectionHeading,
				Definition: sub.SubsectionDefinition,
			})
		}
		out = append(out, s)
	}
	return out
}

func userContextToWire(u domain.UserContext) wireUserContext {
	if u.Anonymous() {
		u = domain.AnonymousContext()
	}
	return wireUserContext{
		UserID:     u.UserID,
		Department: u.Department,
		Role:       u.Role,
		Location:   u.Location,
		Language:   u.Language,
	}
}
