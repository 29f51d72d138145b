package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{BaseURL: server.URL, HTTPClient: server.Client()}
}

func TestSendTurnPostsChatRequest(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(`data: {"session_id":"s-9","type":"interrupt","action":"get_question_response","section":"Terms","question":"What term length?"}`))
	}))

	reply, err := client.SendTurn(context.Background(), ports.TurnRequest{
		SessionID:   "s-9",
		Query:       "Draft an NDA",
		IsInterrupt: false,
		User:        domain.UserContext{UserID: "u-1", Department: "Legal", Role: "Counsel", Location: "Berlin", Language: "en"},
	})
	require.NoError(t, err)

	prompt, ok := reply.(domain.QuestionPrompt)
	require.True(t, ok)
	assert.Equal(t, "What term length?", prompt.Question)

	assert.Equal(t, "Draft an NDA", captured["query"])
	assert.Equal(t, false, captured["is_interrupt"])
	structuring, ok := captured["idea_structuring"].(map[string]any)
	require.True(t, ok)
	user, ok := structuring["user_context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Legal", user["department"])
}

func TestSendTurnCarriesApprovedStructure(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`data: {"type":"interrupt","action":"get_question_response","section":"Overview","question":"q"}`))
	}))

	_, err := client.SendTurn(context.Background(), ports.TurnRequest{
		SessionID:   "s-1",
		Query:       "approved",
		IsInterrupt: true,
		Structuring: &ports.IdeaStructuring{
			Idea:  "An NDA between two parties.",
			Title: "NDA",
			Sections: []domain.Section{{
				Heading: "Overview",
				Purpose: "basics",
				Subsections: []domain.Subsection{
					{Heading: "Parties", Definition: "Who signs?"},
				},
			}},
		},
	})
	require.NoError(t, err)

	structuring := captured["idea_structuring"].(map[string]any)
	assert.Equal(t, "NDA", structuring["title"])
	sections := structuring["all_sections"].([]any)
	require.Len(t, sections, 1)
	first := sections[0].(map[string]any)
	assert.Equal(t, "Overview", first["section_heading"])
	subs := first["subsections"].([]any)
	require.Len(t, subs, 1)
	assert.Equal(t, "Parties", subs[0].(map[string]any)["subsection_heading"])
}

func TestSendTurnAnonymousUserIsSubstituted(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`data: {"type":"interrupt","action":"get_question_response","question":"q"}`))
	}))

	_, err := client.SendTurn(context.Background(), ports.TurnRequest{Query: "hi"})
	require.NoError(t, err)

	user := captured["idea_structuring"].(map[string]any)["user_context"].(map[string]any)
	assert.Equal(t, "anonymous", user["user_id"])
	assert.Equal(t, "en", user["language"])
}

func TestSendTurnNonOKStatusIsAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"Either file or additional_info must be provided"}`))
	}))

	_, err := client.SendTurn(context.Background(), ports.TurnRequest{Query: "hi"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Either file or additional_info must be provided", apiErr.UserMessage())
}

func TestAnalyzeDocumentSendsMultipartForm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-contract-with-questions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "nda.txt", header.Filename)
		assert.Equal(t, "the parties agree", r.FormValue("additional_info"))

		_, _ = w.Write([]byte(`{
			"session_id": "s-3",
			"message": "2 fields missing",
			"missing_data": [
				{"field":"governing_law","description":"Which law governs?","priority":"high","reason":"not stated"},
				{"field":"term","description":"Contract term","priority":"low","reason":"not stated"}
			],
			"extracted_info": {"party_a":"Acme"},
			"missing_data_count": 2
		}`))
	}))

	session, err := client.AnalyzeDocument(context.Background(), ports.DocumentUpload{
		Filename:       "nda.txt",
		Content:        strings.NewReader("confidential material"),
		AdditionalInfo: "the parties agree",
	})
	require.NoError(t, err)

	assert.Equal(t, "s-3", session.SessionID)
	assert.Equal(t, 2, session.MissingCount)
	require.Len(t, session.Missing, 2)
	assert.Equal(t, domain.PriorityHigh, session.Missing[0].Priority)
	assert.Equal(t, "Acme", session.Extracted["party_a"])
}

func TestSubmitMissingDataReturnsFinalContract(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submit-all-missing-data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{
			"type": "end",
			"final_contract": {
				"title": "NDA",
				"sections": [{"section_heading":"Overview","section_purpose":"basics","subsections":[]}],
				"drafts": {"Overview":"The parties agree."}
			}
		}`))
	}))

	contract, err := client.SubmitMissingData(context.Background(), "s-3", map[string]string{
		"governing_law": "Germany",
	})
	require.NoError(t, err)

	answers := captured["missing_data_responses"].(map[string]any)
	assert.Equal(t, "Germany", answers["governing_law"])
	assert.Equal(t, "NDA", contract.Title)
	assert.Equal(t, "The parties agree.", contract.Drafts["Overview"])
}

func TestNextQuestionRejectsNonTerminalAnswer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"question","question":"still missing data"}`))
	}))

	_, err := client.NextQuestion(context.Background(), "s-3")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestListContractsUnwrapsIdeas(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/contracts", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"ideas": [
				{
					"session_id": "s-1",
					"title": "NDA",
					"status": "under_review",
					"all_drafts": {"Overview": "o"},
					"ai_score": 82,
					"metadata": {"department":"Legal","submitted_by":"u-1","sections_count":3}
				}
			]
		}`))
	}))

	records, err := client.ListContracts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, domain.StatusUnderReview, record.Status)
	assert.Equal(t, "o", record.Drafts["Overview"], "all_drafts is the fallback draft map")
	require.NotNil(t, record.AIScore)
	assert.Equal(t, 82, *record.AIScore)
	assert.Equal(t, 3, record.SectionsCount)
}

func TestCreateContractRequiresSessionID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.CreateContract(context.Background(), ports.CatalogSubmission{Title: "NDA"})
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestUpdateContractStatusOmitsEmptyReviewFields(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/update-contract-status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"message":"updated"}`))
	}))

	err := client.UpdateContractStatus(context.Background(), ports.ReviewUpdate{
		SessionID: "s-1",
		Status:    domain.StatusApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, "approved", captured["status"])
	assert.NotContains(t, captured, "evaluation_score")
	assert.NotContains(t, captured, "reviewer_feedback")
}

func TestBuildEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "joins path", base: "http://localhost:8080/apcontract", path: "/chat", want: "http://localhost:8080/apcontract/chat"},
		{name: "empty base", base: "", path: "/chat", wantErr: true},
		{name: "bad scheme", base: "ftp://host", path: "/chat", wantErr: true},
		{name: "missing host", base: "http://", path: "/chat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildEndpoint(tt.base, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
