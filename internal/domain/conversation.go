package domain

import "strings"

// Conversation is the single source of truth for one drafting workflow:
// stage, transcript, structure, per-section drafts, and session
// identity. All mutation goes through its named methods so the
// single-writer invariant stays auditable; nothing outside this type
// writes its fields directly.
type Conversation struct {
	SessionID string
	Stage     Stage
	Turns     []Turn

	Idea     string
	Title    string
	Sections []Section
	Drafts   *DraftRegistry

	ActiveSection string
	ReviewPending bool
	DraftingDone  bool

	User UserContext
}

func NewConversation(user UserContext) *Conversation {
	return &Conversation{
		Stage:  StageIdeaSubmission,
		Drafts: NewDraftRegistry(),
		User:   user,
	}
}

// Reset clears everything back to a fresh idea-submission state. It is
// callable from any stage, including mid-error, and always succeeds.
func (c *Conversation) Reset() {
	c.SessionID = ""
	c.Turns = nil
	c.Idea = ""
	c.Title = ""
	c.Sections = nil
	c.Drafts = NewDraftRegistry()
	c.ActiveSection = ""
	c.ReviewPending = false
	c.DraftingDone = false
	c.Stage = StageIdeaSubmission
}

func (c *Conversation) Append(turn Turn) {
	c.Turns = append(c.Turns, turn)
}

// AdoptSession stores a server-issued session id, only if none is set.
// A session is never mutated, only replaced by Reset.
func (c *Conversation) AdoptSession(id string) {
	if c.SessionID == "" && id != "" {
		c.SessionID = id
	}
}

// AdoptStructure replaces the contract structure wholesale and
// initializes the draft registry with a placeholder per section.
func (c *Conversation) AdoptStructure(idea, title string, sections []Section) {
	c.Idea = idea
	c.Title = title
	c.Sections = CloneSections(sections)
	c.Drafts.InitSections(SectionHeadings(c.Sections))
	c.Stage = StageStructureReview
}

// Structure editing operations, available during structure review.

func (c *Conversation) RenameSection(index int, heading string) error {
	if index < 0 || index >= len(c.Sections) {
		return ErrSectionNotFound
	}
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return ErrBlankInput
	}
	old := c.Sections[index].Heading
	c.Sections[index].Heading = heading
	c.Drafts.Rename(old, heading)
	return nil
}

func (c *Conversation) SetSectionPurpose(index int, purpose string) error {
	if index < 0 || index >= len(c.Sections) {
		return ErrSectionNotFound
	}
	c.Sections[index].Purpose = strings.TrimSpace(purpose)
	return nil
}

func (c *Conversation) AddSubsection(index int, sub Subsection) error {
	if index < 0 || index >= len(c.Sections) {
		return ErrSectionNotFound
	}
	c.Sections[index].AddSubsection(sub)
	return nil
}

func (c *Conversation) RemoveSubsection(section, sub int) error {
	if section < 0 || section >= len(c.Sections) {
		return ErrSectionNotFound
	}
	return c.Sections[section].RemoveSubsection(sub)
}

// SectionIndex resolves a heading case-insensitively.
func (c *Conversation) SectionIndex(heading string) int {
	return findSection(c.Sections, heading)
}

// CompleteDrafting applies the terminal draft map, marks drafting done,
// and moves to the absorbing done stage.
func (c *Conversation) CompleteDrafting(drafts map[string]string) {
	c.Drafts.ReplaceAll(SectionHeadings(c.Sections), drafts)
	c.ReviewPending = false
	c.DraftingDone = true
	c.Stage = StageDone
}

// ExportSections returns the drafted (heading, body) pairs in display
// order, with placeholders and whitespace-only bodies already dropped.
func (c *Conversation) ExportSections() []ExportSection {
	var out []ExportSection
	for _, h := range c.Drafts.Headings() {
		if !c.Drafts.IsDrafted(h) {
			continue
		}
		text, _ := c.Drafts.Draft(h)
		out = append(out, ExportSection{Heading: h, Body: text})
	}
	return out
}

// ExportSection is one (heading, body) pair handed to the document
// exporter.
type ExportSection struct {
	Heading string
	Body    string
}
