package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/draftforge/contract-draft-cli/internal/domain"
)

// The /chat endpoint answers as a server-sent-event stream that always
// carries exactly one event. unwrapEvent strips the event marker if
// present and returns the JSON payload; both the prefixed and the bare
// form are valid inputs. This is the only place that knows about the
// envelope.
const eventPrefix = "data:"

// The backend sends this literal instead of omitting the field when no
// section draft exists yet.
const noDraftSentinel = "No draft content available"

func unwrapEvent(body []byte) (string, error) {
	payload := strings.TrimSpace(string(body))
	if payload == "" {
		return "", &DecodeError{Reason: "empty response body"}
	}
	if rest, ok := strings.CutPrefix(payload, eventPrefix); ok {
		payload = strings.TrimSpace(rest)
	}
	// A multi-line stream would carry the payload on the first line;
	// anything after the first blank line is stream framing.
	if idx := strings.Index(payload, "\n\n"); idx >= 0 {
		payload = strings.TrimSpace(payload[:idx])
	}
	if payload == "" {
		return "", &DecodeError{Reason: "empty event payload"}
	}
	return payload, nil
}

type chatPayload struct {
	SessionID   string          `json:"session_id"`
	Type        string          `json:"type"`
	Action      string          `json:"action"`
	Section     string          `json:"section"`
	Subsection  string          `json:"subsection"`
	Question    string          `json:"question"`
	Reason      string          `json:"reason"`
	Draft       string          `json:"draft"`
	Idea        string          `json:"idea"`
	Title       string          `json:"title"`
	AllSections []wireSection   `json:"all_sections"`
	FinalState  *wireFinalState `json:"final_state"`
}

type wireFinalState struct {
	Title     string            `json:"title"`
	AllDrafts map[string]string `json:"all_drafts"`
}

// decodeTurnReply turns one /chat response body into the closed reply
// union. Unrecognized type/action combinations are a protocol error,
// not a silent no-op.
func decodeTurnReply(body []byte) (domain.AgentReply, error) {
	raw, err := unwrapEvent(body)
	if err != nil {
		return nil, err
	}

	var payload chatPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &DecodeError{Reason: "malformed payload: " + err.Error()}
	}

	if payload.Type == "error" || payload.Action == "error" {
		return nil, &APIError{Status: 200, Detail: payload.Question}
	}

	switch payload.Action {
	case "get_structure_review":
		return domain.StructureProposal{
			SessionID: payload.SessionID,
			Idea:      payload.Idea,
			Title:     payload.Title,
			Sections:  sectionsFromWire(payload.AllSections),
		}, nil

	case "get_question_response":
		draft := payload.Draft
		if draft == noDraftSentinel {
			draft = ""
		}
		return domain.QuestionPrompt{
			SessionID:  payload.SessionID,
			Section:    payload.Section,
			Subsection: payload.Subsection,
			Question:   payload.Question,
			Reason:     payload.Reason,
			Draft:      draft,
		}, nil

	case "get_reviewed_section_draft":
		return domain.ReviewedDraft{
			SessionID: payload.SessionID,
			Section:   payload.Section,
			Draft:     payload.Draft,
		}, nil

	case "get_review_changes":
		return domain.ReviewChangesPrompt{
			SessionID: payload.SessionID,
			Section:   payload.Section,
		}, nil

	case "generate_document":
		if payload.Type != "end" {
			return nil, &DecodeError{Reason: "generate_document without end marker"}
		}
		if payload.FinalState == nil || len(payload.FinalState.AllDrafts) == 0 {
			return nil, &DecodeError{Reason: "generate_document without a draft map"}
		}
		return domain.DocumentComplete{
			SessionID: payload.SessionID,
			Title:     payload.FinalState.Title,
			Drafts:    payload.FinalState.AllDrafts,
		}, nil

	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unrecognized action %q", payload.Action)}
	}
}
