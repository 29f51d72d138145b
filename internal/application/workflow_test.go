package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	mu       sync.Mutex
	requests []ports.TurnRequest
	replies  []domain.AgentReply
	errs     []error
	started  chan struct{}
	block    chan struct{}
}

func (f *fakeAgent) SendTurn(ctx context.Context, req ports.TurnRequest) (domain.AgentReply, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	idx := len(f.requests) - 1

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.replies) {
		return f.replies[idx], nil
	}
	return domain.QuestionPrompt{Question: "anything else?"}, nil
}

func (f *fakeAgent) lastRequest(t *testing.T) ports.TurnRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

type fakeClock struct {
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC) }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	return nil
}

type protocolFailure struct{}

func (protocolFailure) Error() string       { return "unexpected agent response" }
func (protocolFailure) ProtocolError() bool { return true }

type detailedFailure struct{ detail string }

func (e detailedFailure) Error() string       { return e.detail }
func (e detailedFailure) UserMessage() string { return e.detail }

func newTestWorkflow(agent ports.AgentClient) *Workflow {
	return NewWorkflow(agent, &fakeClock{}, domain.UserContext{}, WithPace(0))
}

func proposalReply() domain.AgentReply {
	return domain.StructureProposal{
		SessionID: "s-1",
		Idea:      "A mutual NDA.",
		Title:     "NDA",
		Sections: []domain.Section{
			{Heading: "Intro", Purpose: "who", Subsections: []domain.Subsection{{Heading: "Parties"}}},
			{Heading: "Terms", Purpose: "what", Subsections: []domain.Subsection{{Heading: "Payment"}}},
		},
	}
}

func TestSubmitIdeaAdoptsProposedStructure(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{proposalReply()}}
	w := newTestWorkflow(agent)

	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	snap := w.Snapshot()
	assert.Equal(t, domain.StageStructureReview, snap.Stage)
	assert.Equal(t, "s-1", snap.SessionID)
	assert.Equal(t, "NDA", snap.Title)
	require.Len(t, snap.Sections, 2)
	assert.Equal(t, []string{"Intro", "Terms"}, snap.Drafts.Headings())

	// One user turn plus one assistant turn.
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, domain.RoleUser, snap.Turns[0].Role)
	assert.Equal(t, "Draft an NDA", snap.Turns[0].Content)
	assert.Equal(t, domain.RoleAssistant, snap.Turns[1].Role)

	req := agent.lastRequest(t)
	assert.False(t, req.IsInterrupt, "the first idea turn is not an interrupt resume")
}

func TestSubmitBlankInputMakesNoRequest(t *testing.T) {
	agent := &fakeAgent{}
	w := newTestWorkflow(agent)

	assert.ErrorIs(t, w.Submit(context.Background(), "   \t"), domain.ErrBlankInput)
	assert.Empty(t, agent.requests)
	assert.Empty(t, w.Snapshot().Turns)
}

func TestSubmitClarifyingQuestionEntersQuestionStage(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{
		domain.QuestionPrompt{SessionID: "s-1", Question: "What kind of contract?", Reason: "The idea is too vague."},
	}}
	w := newTestWorkflow(agent)

	require.NoError(t, w.Submit(context.Background(), "help me"))

	snap := w.Snapshot()
	assert.Equal(t, domain.StageQuestionResponse, snap.Stage)
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, "What kind of contract?", snap.Turns[1].Content)
	assert.Equal(t, "The idea is too vague.", snap.Turns[1].Reason)
}

func TestFollowUpTurnsAreInterrupts(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{
		domain.QuestionPrompt{SessionID: "s-1", Question: "What kind of contract?"},
		proposalReply(),
	}}
	w := newTestWorkflow(agent)

	require.NoError(t, w.Submit(context.Background(), "help me"))
	require.NoError(t, w.Submit(context.Background(), "an NDA"))

	req := agent.lastRequest(t)
	assert.True(t, req.IsInterrupt)
	assert.Equal(t, "s-1", req.SessionID)
}

func TestApproveStructureSendsEditedSections(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{
		proposalReply(),
		domain.QuestionPrompt{SessionID: "s-1", Section: "Intro", Question: "Who are the parties?"},
	}}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	require.NoError(t, w.RenameSection(0, "Overview"))
	require.NoError(t, w.ApproveStructure(context.Background()))

	req := agent.lastRequest(t)
	require.NotNil(t, req.Structuring)
	assert.Equal(t, "Overview", req.Structuring.Sections[0].Heading)

	snap := w.Snapshot()
	assert.Equal(t, domain.StageDrafting, snap.Stage)
	assert.Equal(t, "Intro", snap.ActiveSection, "the agent names the section it is asking about")
}

func TestSubmitRefusedDuringStructureReview(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{
		proposalReply(),
		domain.QuestionPrompt{SessionID: "s-1", Question: "Anything else?"},
	}}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	before := w.Snapshot()
	assert.ErrorIs(t, w.Submit(context.Background(), "actually make it mutual"), domain.ErrStructurePending)

	snap := w.Snapshot()
	assert.Equal(t, domain.StageStructureReview, snap.Stage)
	assert.Len(t, snap.Turns, len(before.Turns))

	agent.mu.Lock()
	defer agent.mu.Unlock()
	assert.Len(t, agent.requests, 1, "the refused input makes no request")
}

func TestApproveStructureOutsideReviewStage(t *testing.T) {
	w := newTestWorkflow(&fakeAgent{})
	assert.ErrorIs(t, w.ApproveStructure(context.Background()), domain.ErrNoStructure)
}

func TestStructureEditsOnlyDuringReview(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{proposalReply()}}
	w := newTestWorkflow(agent)

	assert.ErrorIs(t, w.RenameSection(0, "X"), domain.ErrNoStructure)

	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))
	require.NoError(t, w.SetSectionPurpose(0, "scene setting"))
	require.NoError(t, w.AddSubsection(0, domain.Subsection{Heading: "Recitals"}))
	require.NoError(t, w.RemoveSubsection(0, 0))

	snap := w.Snapshot()
	require.Len(t, snap.Sections[0].Subsections, 1)
	assert.Equal(t, "Recitals", snap.Sections[0].Subsections[0].Heading)
}

func TestReviewedDraftAwaitsConfirmation(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{
		proposalReply(),
		domain.ReviewedDraft{SessionID: "s-1", Section: "Intro", Draft: "The parties agree."},
		domain.ReviewedDraft{SessionID: "s-1", Section: "Terms", Draft: "Payment in 30 days."},
	}}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))
	require.NoError(t, w.ApproveStructure(context.Background()))

	snap := w.Snapshot()
	assert.True(t, snap.ReviewPending)
	draft, _ := snap.Drafts.Draft("Intro")
	assert.Equal(t, "The parties agree.", draft)

	turnsBefore := len(snap.Turns)
	require.NoError(t, w.ConfirmDraft(context.Background()))

	req := agent.lastRequest(t)
	assert.Equal(t, "The parties agree.", req.Query, "confirmation resubmits the draft verbatim")

	snap = w.Snapshot()
	// Confirming adds the agent's next turn but no user turn.
	assert.Len(t, snap.Turns, turnsBefore+1)
	assert.Equal(t, "Terms", snap.ActiveSection)
}

func TestConfirmDraftWithoutPendingReview(t *testing.T) {
	w := newTestWorkflow(&fakeAgent{})
	assert.Error(t, w.ConfirmDraft(context.Background()))
}

func TestDocumentCompleteEntersTerminalStage(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{
		proposalReply(),
		domain.DocumentComplete{SessionID: "s-1", Title: "NDA", Drafts: map[string]string{
			"Intro": "The parties agree.",
			"Terms": "Payment in 30 days.",
		}},
	}}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))
	require.NoError(t, w.ApproveStructure(context.Background()))

	snap := w.Snapshot()
	assert.Equal(t, domain.StageDone, snap.Stage)
	assert.True(t, snap.DraftingDone)
	assert.Equal(t, 2, snap.Drafts.DraftedCount())

	assert.ErrorIs(t, w.Submit(context.Background(), "one more thing"), domain.ErrWorkflowComplete)
}

func TestTransportFailureKeepsStateAndAppendsErrorTurn(t *testing.T) {
	agent := &fakeAgent{
		replies: []domain.AgentReply{proposalReply(), nil},
		errs:    []error{nil, context.DeadlineExceeded},
	}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	before := w.Snapshot()
	require.NoError(t, w.Submit(context.Background(), "looks good"))

	after := w.Snapshot()
	assert.Equal(t, before.Stage, after.Stage)
	assert.Equal(t, before.Sections, after.Sections)

	last := after.Turns[len(after.Turns)-1]
	assert.True(t, last.Err)
	assert.Equal(t, transportErrorMessage, last.Content)

	// The failed request released the in-flight guard.
	require.NoError(t, w.Submit(context.Background(), "retrying"))
}

func TestProtocolFailureUsesProtocolMessage(t *testing.T) {
	agent := &fakeAgent{errs: []error{protocolFailure{}}}
	w := newTestWorkflow(agent)

	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	snap := w.Snapshot()
	last := snap.Turns[len(snap.Turns)-1]
	assert.True(t, last.Err)
	assert.Equal(t, protocolErrorMessage, last.Content)
	assert.Equal(t, domain.StageIdeaSubmission, snap.Stage)
}

func TestServerDetailIsShownVerbatim(t *testing.T) {
	agent := &fakeAgent{errs: []error{detailedFailure{detail: "Either file or additional_info must be provided"}}}
	w := newTestWorkflow(agent)

	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	snap := w.Snapshot()
	assert.Equal(t, "Either file or additional_info must be provided", snap.Turns[len(snap.Turns)-1].Content)
}

func TestSecondSubmitWhileInFlight(t *testing.T) {
	agent := &fakeAgent{started: make(chan struct{}, 1), block: make(chan struct{})}
	w := newTestWorkflow(agent)

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background(), "Draft an NDA") }()

	// Wait until the first request is on the wire.
	<-agent.started
	assert.ErrorIs(t, w.Submit(context.Background(), "again"), domain.ErrRequestInFlight)

	close(agent.block)
	require.NoError(t, <-done)
}

func TestResetReturnsToIdeaSubmission(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{proposalReply()}}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	w.Reset()

	snap := w.Snapshot()
	assert.Equal(t, domain.StageIdeaSubmission, snap.Stage)
	assert.Empty(t, snap.Turns)
	assert.Empty(t, snap.Sections)
	assert.Zero(t, snap.Drafts.Len())
}

func TestSetDraftRequiresStructure(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{proposalReply()}}
	w := newTestWorkflow(agent)

	assert.ErrorIs(t, w.SetDraft("Intro", "text"), domain.ErrNoStructure)

	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))
	require.NoError(t, w.SetDraft("Intro", "The parties agree."))

	draft, ok := w.Snapshot().Drafts.Draft("Intro")
	require.True(t, ok)
	assert.Equal(t, "The parties agree.", draft)
}

func TestSnapshotIsDetached(t *testing.T) {
	agent := &fakeAgent{replies: []domain.AgentReply{proposalReply()}}
	w := newTestWorkflow(agent)
	require.NoError(t, w.Submit(context.Background(), "Draft an NDA"))

	snap := w.Snapshot()
	snap.Sections[0].Heading = "Tampered"
	snap.Drafts.SetDraft("Intro", "tampered")

	fresh := w.Snapshot()
	assert.Equal(t, "Intro", fresh.Sections[0].Heading)
	assert.False(t, fresh.Drafts.IsDrafted("Intro"))
}
