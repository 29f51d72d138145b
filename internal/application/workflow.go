package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/logger"
	"github.com/draftforge/contract-draft-cli/internal/ports"
)

// turnPace is the cooperative backoff inserted before every
// conversational-turn request so a fast typist cannot hammer the
// upstream rate limits. It is a fixed delay, not a retry.
const turnPace = time.Second

const (
	transportErrorMessage = "The assistant is unreachable right now. Your conversation is unchanged; please try again."
	protocolErrorMessage  = "The assistant returned an unexpected response. Nothing was applied; please try again."
)

// Workflow owns the conversation state and drives it through the
// remote drafting agent. Every user action maps to at most one
// outbound request; at most one request may be outstanding at a time,
// and a second call while one is pending is a caller error. Transport
// and protocol failures never escape: they become an appended error
// turn and the stage is left untouched.
type Workflow struct {
	agent ports.AgentClient
	clock ports.Clock
	pace  time.Duration

	mu       sync.Mutex
	inFlight bool
	conv     *domain.Conversation
}

type WorkflowOption func(*Workflow)

// WithPace overrides the pre-request delay. Tests set it to zero.
func WithPace(d time.Duration) WorkflowOption {
	return func(w *Workflow) { w.pace = d }
}

func NewWorkflow(agent ports.AgentClient, clock ports.Clock, user domain.UserContext, opts ...WorkflowOption) *Workflow {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	w := &Workflow{
		agent: agent,
		clock: clock,
		pace:  turnPace,
		conv:  domain.NewConversation(user),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot is a consistent copy of the conversation state for
// rendering. Mutating a snapshot never touches the live state.
type Snapshot struct {
	SessionID     string
	Stage         domain.Stage
	Turns         []domain.Turn
	Idea          string
	Title         string
	Sections      []domain.Section
	Drafts        *domain.DraftRegistry
	ActiveSection string
	ReviewPending bool
	DraftingDone  bool
	User          domain.UserContext
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.conv
	return Snapshot{
		SessionID:     c.SessionID,
		Stage:         c.Stage,
		Turns:         append([]domain.Turn(nil), c.Turns...),
		Idea:          c.Idea,
		Title:         c.Title,
		Sections:      domain.CloneSections(c.Sections),
		Drafts:        c.Drafts.Clone(),
		ActiveSection: c.ActiveSection,
		ReviewPending: c.ReviewPending,
		DraftingDone:  c.DraftingDone,
		User:          c.User,
	}
}

// Submit sends one line of user input to the agent. Blank input is a
// local validation error and makes no network call. During structure
// review free text is refused: that stage advances only through
// ApproveStructure.
func (w *Workflow) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	w.mu.Lock()
	if text == "" {
		w.mu.Unlock()
		return domain.ErrBlankInput
	}
	if w.conv.Stage.Terminal() {
		w.mu.Unlock()
		return domain.ErrWorkflowComplete
	}
	if !w.conv.Stage.AcceptsUserInput() {
		w.mu.Unlock()
		return domain.ErrStructurePending
	}
	if w.inFlight {
		w.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	w.inFlight = true
	w.conv.Append(domain.UserTurn(text))
	req := ports.TurnRequest{
		SessionID:   w.conv.SessionID,
		Query:       text,
		IsInterrupt: w.conv.Stage != domain.StageIdeaSubmission,
		User:        w.conv.User,
	}
	w.mu.Unlock()

	return w.dispatch(ctx, req, false)
}

// ConfirmDraft is the synthetic "continue" action while a section
// review is pending: the previously rendered draft is resubmitted
// verbatim, and it is NOT duplicated as a new user turn.
func (w *Workflow) ConfirmDraft(ctx context.Context) error {
	w.mu.Lock()
	if w.conv.Stage != domain.StageDrafting || !w.conv.ReviewPending {
		w.mu.Unlock()
		return fmt.Errorf("no section draft is awaiting confirmation")
	}
	if w.inFlight {
		w.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	draft, _ := w.conv.Drafts.Draft(w.conv.ActiveSection)
	w.inFlight = true
	req := ports.TurnRequest{
		SessionID:   w.conv.SessionID,
		Query:       draft,
		IsInterrupt: true,
		User:        w.conv.User,
	}
	w.mu.Unlock()

	return w.dispatch(ctx, req, true)
}

// ApproveStructure resumes the structure-review interrupt with the
// user-approved (possibly edited) structure and enters the drafting
// stage.
func (w *Workflow) ApproveStructure(ctx context.Context) error {
	w.mu.Lock()
	if w.conv.Stage != domain.StageStructureReview {
		w.mu.Unlock()
		return domain.ErrNoStructure
	}
	if w.inFlight {
		w.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	w.inFlight = true
	req := ports.TurnRequest{
		SessionID:   w.conv.SessionID,
		IsInterrupt: true,
		Structuring: &ports.IdeaStructuring{
			Idea:     w.conv.Idea,
			Title:    w.conv.Title,
			Sections: domain.CloneSections(w.conv.Sections),
		},
		User: w.conv.User,
	}
	w.mu.Unlock()

	return w.dispatch(ctx, req, false)
}

func (w *Workflow) dispatch(ctx context.Context, req ports.TurnRequest, confirming bool) error {
	if err := w.clock.Sleep(ctx, w.pace); err != nil {
		w.settle(func(c *domain.Conversation) {
			c.Append(domain.ErrorTurn(transportErrorMessage))
		})
		return nil
	}

	reply, err := w.agent.SendTurn(ctx, req)
	if err != nil {
		logger.Error("agent turn failed", "error", err)
		message := transportErrorMessage
		var apiErr interface{ UserMessage() string }
		if errors.As(err, &apiErr) && apiErr.UserMessage() != "" {
			message = apiErr.UserMessage()
		} else if isProtocolError(err) {
			message = protocolErrorMessage
		}
		w.settle(func(c *domain.Conversation) {
			c.Append(domain.ErrorTurn(message))
		})
		return nil
	}

	w.settle(func(c *domain.Conversation) {
		if req.Structuring != nil {
			c.Stage = domain.StageDrafting
		}
		if confirming {
			c.ReviewPending = false
		}
		w.apply(c, reply)
	})
	return nil
}

// settle re-acquires the state under lock, clears the in-flight guard,
// and applies one atomic update.
func (w *Workflow) settle(update func(*domain.Conversation)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	update(w.conv)
}

// apply interprets one agent reply. Side effects per call: at most one
// appended turn, at most one registry write, at most one stage
// transition, at most one session assignment.
func (w *Workflow) apply(c *domain.Conversation, reply domain.AgentReply) {
	switch r := reply.(type) {
	case domain.StructureProposal:
		c.AdoptSession(r.SessionID)
		c.AdoptStructure(r.Idea, r.Title, r.Sections)
		c.Append(domain.AssistantTurn(structureIntro(r.Title, r.Idea)))

	case domain.QuestionPrompt:
		c.AdoptSession(r.SessionID)
		turn := domain.Turn{
			Role:       domain.RoleAssistant,
			Content:    r.Question,
			Reason:     r.Reason,
			Section:    r.Section,
			Subsection: r.Subsection,
		}
		if c.Stage == domain.StageDrafting {
			if r.Section != "" {
				c.ActiveSection = r.Section
				if strings.TrimSpace(r.Draft) != "" {
					c.Drafts.SetDraft(r.Section, r.Draft)
				}
			}
			c.Append(turn)
		} else {
			c.Append(turn)
			// The stage never moves backwards.
			if c.Stage.Rank() < domain.StageQuestionResponse.Rank() {
				c.Stage = domain.StageQuestionResponse
			}
		}

	case domain.ReviewedDraft:
		c.AdoptSession(r.SessionID)
		if r.Section != "" {
			c.ActiveSection = r.Section
			c.Drafts.SetDraft(r.Section, r.Draft)
		}
		c.ReviewPending = true
		c.Append(domain.Turn{
			Role:    domain.RoleAssistant,
			Content: fmt.Sprintf("Here is the draft for %q. Confirm it as-is, or edit the text and send your version.", r.Section),
			Section: r.Section,
		})

	case domain.ReviewChangesPrompt:
		c.Append(domain.Turn{
			Role:    domain.RoleAssistant,
			Content: fmt.Sprintf("What changes would you like to the %q draft? Describe them and I will revise it.", r.Section),
			Section: r.Section,
		})

	case domain.DocumentComplete:
		c.AdoptSession(r.SessionID)
		if c.Title == "" && r.Title != "" {
			c.Title = r.Title
		}
		c.CompleteDrafting(r.Drafts)
		c.Append(domain.AssistantTurn("All sections are drafted. Review the full document, then export it or save it to the catalog."))
	}
}

func structureIntro(title, idea string) string {
	var b strings.Builder
	b.WriteString("I structured your idea")
	if title != "" {
		fmt.Fprintf(&b, " as %q", title)
	}
	b.WriteString(".")
	if idea != "" {
		b.WriteString("\n\n")
		b.WriteString(idea)
	}
	b.WriteString("\n\nReview the proposed sections, edit them if needed, then approve to start drafting.")
	return b.String()
}

// Reset clears the workflow back to idea submission. It succeeds from
// any stage, including after an error.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	w.conv.Reset()
}

// Draft edits are independent of the chat workflow and allowed at any
// stage where sections exist.

func (w *Workflow) SetDraft(heading, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conv.Drafts.Len() == 0 {
		return domain.ErrNoStructure
	}
	w.conv.Drafts.SetDraft(heading, text)
	return nil
}

// Structure edits, valid while reviewing the proposed structure.

func (w *Workflow) RenameSection(index int, heading string) error {
	return w.editStructure(func(c *domain.Conversation) error {
		return c.RenameSection(index, heading)
	})
}

func (w *Workflow) SetSectionPurpose(index int, purpose string) error {
	return w.editStructure(func(c *domain.Conversation) error {
		return c.SetSectionPurpose(index, purpose)
	})
}

func (w *Workflow) AddSubsection(index int, sub domain.Subsection) error {
	return w.editStructure(func(c *domain.Conversation) error {
		return c.AddSubsection(index, sub)
	})
}

func (w *Workflow) RemoveSubsection(section, sub int) error {
	return w.editStructure(func(c *domain.Conversation) error {
		return c.RemoveSubsection(section, sub)
	})
}

func (w *Workflow) editStructure(edit func(*domain.Conversation) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conv.Stage != domain.StageStructureReview {
		return domain.ErrNoStructure
	}
	return edit(w.conv)
}

func isProtocolError(err error) bool {
	var pe interface{ ProtocolError() bool }
	return errors.As(err, &pe) && pe.ProtocolError()
}
