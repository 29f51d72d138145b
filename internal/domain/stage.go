package domain

// Stage is the workflow's current discrete phase. It only ever moves
// forward, except for the question-response self-loop while the agent
// keeps asking clarifying questions. StageDone is absorbing: only a
// reset leaves it.
type Stage string

const (
	StageIdeaSubmission   Stage = "idea-submission"
	StageQuestionResponse Stage = "question-response"
	StageStructureReview  Stage = "structure-review"
	StageDrafting         Stage = "drafting"
	StageDone             Stage = "done"
)

func (s Stage) Label() string {
	switch s {
	case StageIdeaSubmission:
		return "Idea"
	case StageQuestionResponse:
		return "Clarifying"
	case StageStructureReview:
		return "Structure review"
	case StageDrafting:
		return "Drafting"
	case StageDone:
		return "Done"
	default:
		return string(s)
	}
}

// Rank orders stages for monotonicity checks. Unknown stages rank below
// everything so a corrupted value can never look like progress.
func (s Stage) Rank() int {
	switch s {
	case StageIdeaSubmission:
		return 1
	case StageQuestionResponse:
		return 2
	case StageStructureReview:
		return 3
	case StageDrafting:
		return 4
	case StageDone:
		return 5
	default:
		return 0
	}
}

func (s Stage) Terminal() bool {
	return s == StageDone
}

// AcceptsUserInput reports whether typed chat input is meaningful in
// this stage. Structure review advances through an explicit approval
// action rather than free text, and the terminal stage accepts nothing.
func (s Stage) AcceptsUserInput() bool {
	switch s {
	case StageIdeaSubmission, StageQuestionResponse, StageDrafting:
		return true
	default:
		return false
	}
}
