package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
)

const maxResponseBytes = 4 << 20

// Client talks to the contract-drafting backend over HTTP. It
// implements the AgentClient, IntakeClient, and CatalogClient ports.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var (
	_ ports.AgentClient   = (*Client)(nil)
	_ ports.IntakeClient  = (*Client)(nil)
	_ ports.CatalogClient = (*Client)(nil)
)

type chatRequest struct {
	SessionID       string              `json:"session_id"`
	Query           string              `json:"query"`
	IsInterrupt     bool                `json:"is_interrupt"`
	IdeaStructuring chatIdeaStructuring `json:"idea_structuring"`
}

type chatIdeaStructuring struct {
	Idea        string          `json:"idea"`
	Title       string          `json:"title"`
	AllSections []wireSection   `json:"all_sections"`
	UserContext wireUserContext `json:"user_context"`
}

func (c *Client) SendTurn(ctx context.Context, req ports.TurnRequest) (domain.AgentReply, error) {
	payload := chatRequest{
		SessionID:   req.SessionID,
		Query:       req.Query,
		IsInterrupt: req.IsInterrupt,
		IdeaStructuring: chatIdeaStructuring{
			UserContext: userContextToWire(req.User),
		},
	}
	if req.Structuring != nil {
		payload.IdeaStructuring.Idea = req.Structuring.Idea
		payload.IdeaStructuring.Title = req.Structuring.Title
		payload.IdeaStructuring.AllSections = sectionsToWire(req.Structuring.Sections)
	}

	body, err := c.postJSON(ctx, "/chat", payload)
	if err != nil {
		return nil, err
	}
	return decodeTurnReply(body)
}

type analyzeResponse struct {
	SessionID     string             `json:"session_id"`
	Message       string             `json:"message"`
	MissingData   []wireMissingField `json:"missing_data"`
	ExtractedInfo map[string]string  `json:"extracted_info"`
	MissingCount  int                `json:"missing_data_count"`
}

type wireMissingField struct {
	Field       string `json:"field"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Reason      string `json:"reason"`
}

func (c *Client) AnalyzeDocument(ctx context.Context, upload ports.DocumentUpload) (domain.IntakeSession, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if upload.Content != nil {
		part, err := form.CreateFormFile("file", upload.Filename)
		if err != nil {
			return domain.IntakeSession{}, fmt.Errorf("build upload form: %w", err)
		}
		if _, err := io.Copy(part, upload.Content); err != nil {
			return domain.IntakeSession{}, fmt.Errorf("copy document into form: %w", err)
		}
	}
	if upload.AdditionalInfo != "" {
		if err := form.WriteField("additional_info", upload.AdditionalInfo); err != nil {
			return domain.IntakeSession{}, fmt.Errorf("build upload form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return domain.IntakeSession{}, fmt.Errorf("finish upload form: %w", err)
	}

	body, err := c.post(ctx, "/generate-contract-with-questions", form.FormDataContentType(), &buf)
	if err != nil {
		return domain.IntakeSession{}, err
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.IntakeSession{}, &DecodeError{Reason: "malformed analysis response: " + err.Error()}
	}

	session := domain.IntakeSession{
		SessionID:    resp.SessionID,
		Message:      resp.Message,
		Extracted:    resp.ExtractedInfo,
		MissingCount: resp.MissingCount,
	}
	for _, f := range resp.MissingData {
		session.Missing = append(session.Missing, domain.MissingField{
			Field:       f.Field,
			Description: f.Description,
			Priority:    domain.Priority(f.Priority),
			Reason:      f.Reason,
		})
	}
	return session, nil
}

type finalContractResponse struct {
	Type          string             `json:"type"`
	FinalContract *wireFinalContract `json:"final_contract"`
}

type wireFinalContract struct {
	Title    string            `json:"title"`
	Sections []wireSection     `json:"sections"`
	Drafts   map[string]string `json:"drafts"`
}

func (c *Client) SubmitMissingData(ctx context.Context, sessionID string, answers map[string]string) (domain.FinalContract, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	body, err := c.postJSON(ctx, "/submit-all-missing-data", map[string]any{
		"session_id":             sessionID,
		"missing_data_responses": answers,
	})
	if err != nil {
		return domain.FinalContract{}, err
	}
	return decodeFinalContract(body)
}

func (c *Client) NextQuestion(ctx context.Context, sessionID string) (domain.FinalContract, error) {
	body, err := c.postJSON(ctx, "/get-next-question", map[string]any{
		"session_id": sessionID,
	})
	if err != nil {
		return domain.FinalContract{}, err
	}
	return decodeFinalContract(body)
}

func decodeFinalContract(body []byte) (domain.FinalContract, error) {
	var resp finalContractResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.FinalContract{}, &DecodeError{Reason: "malformed contract response: " + err.Error()}
	}
	if resp.Type != "end" || resp.FinalContract == nil {
		return domain.FinalContract{}, &DecodeError{Reason: "contract response is not terminal"}
	}
	return domain.FinalContract{
		Title:    resp.FinalContract.Title,
		Sections: sectionsFromWire(resp.FinalContract.Sections),
		Drafts:   resp.FinalContract.Drafts,
	}, nil
}

func (c *Client) SaveContract(ctx context.Context, sessionID string, contract domain.FinalContract) error {
	_, err := c.postJSON(ctx, "/save-contract", map[string]any{
		"session_id": sessionID,
		"contract": map[string]any{
			"title":    contract.Title,
			"drafts":   contract.Drafts,
			"sections": sectionsToWire(contract.Sections),
		},
	})
	return err
}

type listResponse struct {
	Ideas []wireRecord `json:"ideas"`
}

type wireRecord struct {
	SessionID  string            `json:"session_id"`
	Title      string            `json:"title"`
	Status     string            `json:"status"`
	Drafts     map[string]string `json:"drafts"`
	AllDrafts  map[string]string `json:"all_drafts"`
	AIScore    *int              `json:"ai_score"`
	AIFeedback string            `json:"ai_feedback"`
	Metadata   wireRecordMeta    `json:"metadata"`
}

type wireRecordMeta struct {
	Department      string     `json:"department"`
	SubmittedBy     string     `json:"submitted_by"`
	SectionsCount   int        `json:"sections_count"`
	EvaluationScore *int       `json:"evaluation_score"`
	CreatedAt       *time.Time `json:"created_at"`
}

func (c *Client) ListContracts(ctx context.Context) ([]domain.ContractRecord, error) {
	body, err := c.get(ctx, "/contracts")
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Reason: "malformed contract list: " + err.Error()}
	}

	records := make([]domain.ContractRecord, 0, len(resp.Ideas))
	for _, r := range resp.Ideas {
		drafts := r.Drafts
		if len(drafts) == 0 {
			drafts = r.AllDrafts
		}
		record := domain.ContractRecord{
			SessionID:       r.SessionID,
			Title:           r.Title,
			Status:          domain.ContractStatus(r.Status),
			Drafts:          drafts,
			SectionsCount:   r.Metadata.SectionsCount,
			Department:      r.Metadata.Department,
			SubmittedBy:     r.Metadata.SubmittedBy,
			EvaluationScore: r.Metadata.EvaluationScore,
			AIScore:         r.AIScore,
			AIFeedback:      r.AIFeedback,
		}
		if r.Metadata.CreatedAt != nil {
			record.CreatedAt = *r.Metadata.CreatedAt
		}
		records = append(records, record)
	}
	return records, nil
}

type createResponse struct {
	SessionID string `json:"session_id"`
}

func (c *Client) CreateContract(ctx context.Context, submission ports.CatalogSubmission) (string, error) {
	body, err := c.postJSON(ctx, "/contracts", map[string]any{
		"title":  submission.Title,
		"idea":   submission.Idea,
		"drafts": submission.Drafts,
		"status": string(submission.Status),
		"metadata": map[string]any{
			"submitted_by":   submission.Metadata.SubmittedBy,
			"department":     submission.Metadata.Department,
			"sections_count": submission.Metadata.SectionsCount,
		},
	})
	if err != nil {
		return "", err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &DecodeError{Reason: "malformed create response: " + err.Error()}
	}
	if resp.SessionID == "" {
		return "", &DecodeError{Reason: "create response missing session id"}
	}
	return resp.SessionID, nil
}

func (c *Client) UpdateContractStatus(ctx context.Context, update ports.ReviewUpdate) error {
	payload := map[string]any{
		"session_id": update.SessionID,
		"status":     string(update.Status),
	}
	if update.EvaluationScore != nil {
		payload["evaluation_score"] = *update.EvaluationScore
	}
	if update.ReviewerFeedback != "" {
		payload["reviewer_feedback"] = update.ReviewerFeedback
	}
	_, err := c.postJSON(ctx, "/update-contract-status", payload)
	return err
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.post(ctx, path, "application/json", bytes.NewReader(encoded))
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, contentType, body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	endpoint, err := buildEndpoint(c.BaseURL, path)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}

func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{Status: status, Detail: payload.Detail}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(ctx, timeout)
}

func buildEndpoint(baseURL, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("agent base url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse agent base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("agent base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("agent base url host is required")
	}
	endpoint, err := url.JoinPath(baseURL, path)
	if err != nil {
		return "", fmt.Errorf("join endpoint path: %w", err)
	}
	return endpoint, nil
}
