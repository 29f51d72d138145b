package ports

import (
	"context"
	"io"

	"github.com/draftforge/contract-draft-cli/internal/domain"
)

// DocumentUpload carries an optional document plus optional free-text
// contract information for analysis. At least one must be present.
type DocumentUpload struct {
	Filename       string
	Content        io.Reader
	AdditionalInfo string
}

type IntakeClient interface {
	AnalyzeDocument(ctx context.Context, upload DocumentUpload) (domain.IntakeSession, error)
	SubmitMissingData(ctx context.Context, sessionID string, answers map[string]string) (domain.FinalContract, error)
	// NextQuestion drives generation when the analysis found nothing
	// missing; the backend answers with the finished contract.
	NextQuestion(ctx context.Context, sessionID string) (domain.FinalContract, error)
	SaveContract(ctx context.Context, sessionID string, contract domain.FinalContract) error
}
