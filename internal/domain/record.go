package domain

import (
	"strconv"
	"time"
)

type ContractStatus string

const (
	StatusSubmitted   ContractStatus = "submitted"
	StatusUnderReview ContractStatus = "under_review"
	StatusApproved    ContractStatus = "approved"
	StatusRejected    ContractStatus = "rejected"
	StatusCompleted   ContractStatus = "completed"
)

// ContractRecord is a catalog entry as returned by the backend.
type ContractRecord struct {
	SessionID       string
	Title           string
	Status          ContractStatus
	Drafts          map[string]string
	SectionsCount   int
	Department      string
	SubmittedBy     string
	EvaluationScore *int
	AIScore         *int
	AIFeedback      string
	CreatedAt       time.Time
}

// SubmissionKey guards against re-submitting the same in-memory draft
// set to the catalog. Known weak key: two different contracts with the
// same title and section count collide; it is advisory, not a hard
// de-duplication guarantee.
func SubmissionKey(title string, sectionCount int) string {
	return title + "_" + strconv.Itoa(sectionCount)
}
