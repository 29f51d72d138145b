package ports

import (
	"context"

	"github.com/draftforge/contract-draft-cli/internal/domain"
)

// TurnRequest is one conversational turn sent to the drafting agent.
type TurnRequest struct {
	SessionID   string
	Query       string
	IsInterrupt bool
	// Structuring is set when resuming the structure-review interrupt:
	// the user-approved (possibly edited) structure goes back to the
	// agent instead of free text.
	Structuring *IdeaStructuring
	User        domain.UserContext
}

type IdeaStructuring struct {
	Idea     string
	Title    string
	Sections []domain.Section
}

type AgentClient interface {
	SendTurn(ctx context.Context, req TurnRequest) (domain.AgentReply, error)
}
