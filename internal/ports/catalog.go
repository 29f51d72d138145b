package ports

import (
	"context"

	"github.com/draftforge/contract-draft-cli/internal/domain"
)

type CatalogSubmission struct {
	Title    string
	Idea     string
	Drafts   map[string]string
	Status   domain.ContractStatus
	Metadata SubmissionMetadata
}

type SubmissionMetadata struct {
	SubmittedBy   string
	Department    string
	SectionsCount int
}

type ReviewUpdate struct {
	SessionID        string
	Status           domain.ContractStatus
	EvaluationScore  *int
	ReviewerFeedback string
}

type CatalogClient interface {
	ListContracts(ctx context.Context) ([]domain.ContractRecord, error)
	// CreateContract submits a draft set and returns the server-issued
	// session id of the new record.
	CreateContract(ctx context.Context, submission CatalogSubmission) (string, error)
	UpdateContractStatus(ctx context.Context, update ReviewUpdate) error
}
