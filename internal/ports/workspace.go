package ports

import (
	"context"

	"github.com/draftforge/contract-draft-cli/internal/domain"
)

// WorkspaceStore persists client-side state across runs: the login
// profile and the ledger of catalog submissions used for the
// duplicate-submission guard.
type WorkspaceStore interface {
	Profile(ctx context.Context) (domain.UserContext, bool, error)
	SaveProfile(ctx context.Context, profile domain.UserContext) error
	ClearProfile(ctx context.Context) error

	HasSubmission(ctx context.Context, key string) (bool, error)
	// RecordSubmission stores the ledger entry and returns its local
	// record id.
	RecordSubmission(ctx context.Context, key, title string, sections int) (string, error)
}
