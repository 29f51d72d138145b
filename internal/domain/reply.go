package domain

// AgentReply is the closed set of structured replies the drafting agent
// can return for a conversational turn. Decoding lives in the agent
// adapter; everything downstream switches exhaustively over these
// variants.
type AgentReply interface {
	agentReply()
}

// QuestionPrompt asks the user for more input. Before a structure
// exists it is a clarifying question about the idea; during drafting it
// targets the named section and may carry the current section draft.
type QuestionPrompt struct {
	SessionID  string
	Section    string
	Subsection string
	Question   string
	Reason     string
	Draft      string
}

// StructureProposal replaces the contract structure wholesale: the
// rephrased idea, a proposed title, and the full section list.
type StructureProposal struct {
	SessionID string
	Idea      string
	Title     string
	Sections  []Section
}

// ReviewedDraft carries a finished draft for one section, pending the
// user's confirmation or edits.
type ReviewedDraft struct {
	SessionID string
	Section   string
	Draft     string
}

// ReviewChangesPrompt asks the user to describe the changes they want
// to a reviewed section. It mutates nothing.
type ReviewChangesPrompt struct {
	SessionID string
	Section   string
}

// DocumentComplete is the terminal reply: the workflow is finished and
// Drafts holds the complete draft map.
type DocumentComplete struct {
	SessionID string
	Title     string
	Drafts    map[string]string
}

func (QuestionPrompt) agentReply()      {}
func (StructureProposal) agentReply()   {}
func (ReviewedDraft) agentReply()       {}
func (ReviewChangesPrompt) agentReply() {}
func (DocumentComplete) agentReply()    {}
