package application

import (
	"context"
	"fmt"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/logger"
	"github.com/draftforge/contract-draft-cli/internal/ports"
)

// Catalog handles the contract catalog: listing records, submitting a
// finished draft set, and review-status updates.
type Catalog struct {
	client    ports.CatalogClient
	workspace ports.WorkspaceStore
}

func NewCatalog(client ports.CatalogClient, workspace ports.WorkspaceStore) *Catalog {
	return &Catalog{client: client, workspace: workspace}
}

func (c *Catalog) List(ctx context.Context) ([]domain.ContractRecord, error) {
	records, err := c.client.ListContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return records, nil
}

// Submit sends a draft set to the catalog. The local submission ledger
// guards against re-submitting the same set; force bypasses the guard
// (the key is advisory, see domain.SubmissionKey).
func (c *Catalog) Submit(ctx context.Context, submission ports.CatalogSubmission, force bool) (string, error) {
	key := domain.SubmissionKey(submission.Title, submission.Metadata.SectionsCount)

	if !force {
		seen, err := c.workspace.HasSubmission(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check submission ledger: %w", err)
		}
		if seen {
			return "", domain.ErrAlreadySubmitted
		}
	}

	sessionID, err := c.client.CreateContract(ctx, submission)
	if err != nil {
		return "", fmt.Errorf("create contract: %w", err)
	}

	if _, err := c.workspace.RecordSubmission(ctx, key, submission.Title, submission.Metadata.SectionsCount); err != nil {
		// The submission already succeeded; a ledger write failure
		// only weakens the duplicate guard.
		logger.Warn("record submission ledger entry", "key", key, "error", err)
	}

	return sessionID, nil
}

func (c *Catalog) UpdateStatus(ctx context.Context, update ports.ReviewUpdate) error {
	if update.SessionID == "" {
		return fmt.Errorf("session id is required: %w", domain.ErrBlankInput)
	}
	if err := c.client.UpdateContractStatus(ctx, update); err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	return nil
}
