package domain

import "errors"

var (
	ErrBlankInput          = errors.New("input is empty")
	ErrRequestInFlight     = errors.New("a request is already in flight")
	ErrWorkflowComplete    = errors.New("workflow is complete; reset to start a new contract")
	ErrStructurePending    = errors.New("the proposed structure is awaiting review; edit it or approve it to continue")
	ErrNoStructure         = errors.New("no contract structure has been proposed yet")
	ErrSectionNotFound     = errors.New("section not found")
	ErrSubsectionNotFound  = errors.New("subsection not found")
	ErrSubsectionFloor     = errors.New("a section must keep at least one subsection")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrAlreadySubmitted    = errors.New("this draft set was already submitted to the catalog")
	ErrNoProfile           = errors.New("no user profile saved")
)
