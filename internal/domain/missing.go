package domain

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// MissingField is one piece of information the document analysis could
// not extract. It is transient: produced by the analysis response and
// consumed once the user's answers are submitted.
type MissingField struct {
	Field       string
	Description string
	Priority    Priority
	Reason      string
}

// IntakeSession is the result of analyzing an uploaded document and/or
// free-text description.
type IntakeSession struct {
	SessionID    string
	Message      string
	Missing      []MissingField
	Extracted    map[string]string
	MissingCount int
}

// FinalContract is the finished document returned by the terminal
// intake responses.
type FinalContract struct {
	Title    string
	Sections []Section
	Drafts   map[string]string
}
