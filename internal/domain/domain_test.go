package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageRankIsMonotonic(t *testing.T) {
	order := []Stage{StageIdeaSubmission, StageQuestionResponse, StageStructureReview, StageDrafting, StageDone}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Rank(), order[i-1].Rank(), "stage %s must rank above %s", order[i], order[i-1])
	}
	assert.Equal(t, 0, Stage("bogus").Rank())
}

func TestStageLabels(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageIdeaSubmission, "Idea"},
		{StageQuestionResponse, "Clarifying"},
		{StageStructureReview, "Structure review"},
		{StageDrafting, "Drafting"},
		{StageDone, "Done"},
		{Stage("mystery"), "mystery"},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stage.Label())
		})
	}
}

func TestStageAcceptsUserInput(t *testing.T) {
	assert.True(t, StageIdeaSubmission.AcceptsUserInput())
	assert.True(t, StageQuestionResponse.AcceptsUserInput())
	assert.True(t, StageDrafting.AcceptsUserInput())
	assert.False(t, StageStructureReview.AcceptsUserInput())
	assert.False(t, StageDone.AcceptsUserInput())
}

func TestAnonymousContextDefaults(t *testing.T) {
	ctx := AnonymousContext()
	assert.True(t, ctx.Anonymous())
	assert.Equal(t, "en", ctx.Language)

	named := UserContext{UserID: "u-17", Department: "Legal", Role: "Counsel"}
	assert.False(t, named.Anonymous())
}

func TestSubmissionKey(t *testing.T) {
	assert.Equal(t, "My NDA_3", SubmissionKey("My NDA", 3))
	assert.Equal(t, "_0", SubmissionKey("", 0))
}

func TestErrorTurnMarksError(t *testing.T) {
	turn := ErrorTurn("network unreachable")
	require.Equal(t, RoleAssistant, turn.Role)
	assert.True(t, turn.Err)
	assert.False(t, UserTurn("hello").Err)
}
