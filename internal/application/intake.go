package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
)

// allowedUploadExtensions mirrors the backend's whitelist; rejection is
// a local validation error and never reaches the server.
var allowedUploadExtensions = map[string]struct{}{
	".docx": {},
	".doc":  {},
	".pdf":  {},
	".txt":  {},
}

// Intake runs the document-analysis flow: upload a contract document
// and/or free text, answer the fields the analysis could not extract,
// and receive the finished contract.
type Intake struct {
	client ports.IntakeClient
}

func NewIntake(client ports.IntakeClient) *Intake {
	return &Intake{client: client}
}

// Analyze validates and uploads a document (path may be empty when
// info alone describes the contract) and returns the analysis session.
func (i *Intake) Analyze(ctx context.Context, path, info string) (domain.IntakeSession, error) {
	info = strings.TrimSpace(info)
	if path == "" && info == "" {
		return domain.IntakeSession{}, fmt.Errorf("provide a document, contract information, or both: %w", domain.ErrBlankInput)
	}

	upload := ports.DocumentUpload{AdditionalInfo: info}
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := allowedUploadExtensions[ext]; !ok {
			return domain.IntakeSession{}, fmt.Errorf("%w: %s (allowed: .docx, .doc, .pdf, .txt)", domain.ErrUnsupportedFileType, ext)
		}
		file, err := os.Open(path)
		if err != nil {
			return domain.IntakeSession{}, fmt.Errorf("open document: %w", err)
		}
		defer func() { _ = file.Close() }()
		upload.Filename = filepath.Base(path)
		upload.Content = file
	}

	session, err := i.client.AnalyzeDocument(ctx, upload)
	if err != nil {
		return domain.IntakeSession{}, fmt.Errorf("analyze document: %w", err)
	}
	return session, nil
}

// SubmitAnswers sends every collected answer at once and returns the
// finished contract. Blank answers are dropped rather than submitted.
func (i *Intake) SubmitAnswers(ctx context.Context, sessionID string, answers map[string]string) (domain.FinalContract, error) {
	cleaned := make(map[string]string, len(answers))
	for field, answer := range answers {
		if trimmed := strings.TrimSpace(answer); trimmed != "" {
			cleaned[field] = trimmed
		}
	}
	contract, err := i.client.SubmitMissingData(ctx, sessionID, cleaned)
	if err != nil {
		return domain.FinalContract{}, fmt.Errorf("submit missing data: %w", err)
	}
	return contract, nil
}

// Generate produces the contract directly when the analysis found
// nothing missing.
func (i *Intake) Generate(ctx context.Context, sessionID string) (domain.FinalContract, error) {
	contract, err := i.client.NextQuestion(ctx, sessionID)
	if err != nil {
		return domain.FinalContract{}, fmt.Errorf("generate contract: %w", err)
	}
	return contract, nil
}

// Save persists the finished contract under its analysis session.
func (i *Intake) Save(ctx context.Context, sessionID string, contract domain.FinalContract) error {
	if err := i.client.SaveContract(ctx, sessionID, contract); err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}

// OrderMissingFields sorts fields for prompting: high priority first,
// stable within the same priority.
func OrderMissingFields(fields []domain.MissingField) []domain.MissingField {
	out := append([]domain.MissingField(nil), fields...)
	sort.SliceStable(out, func(a, b int) bool {
		return priorityRank(out[a].Priority) > priorityRank(out[b].Priority)
	})
	return out
}

func priorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 1
	default:
		return 0
	}
}
