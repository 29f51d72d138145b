package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/draftforge/contract-draft-cli/internal/adapters/export"
	"github.com/draftforge/contract-draft-cli/internal/application"
	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
	"github.com/spf13/cobra"
)

const chatHelp = `Commands:
  /structure            show the proposed structure
  /progress             show drafting progress
  /approve              approve the structure and start drafting
  /confirm              accept the pending section draft as-is
  /rename <n> <name>    rename section n
  /purpose <n> <text>   set the purpose of section n
  /addsub <n> <name>    add a subsection to section n
  /rmsub <n> <m>        remove subsection m from section n
  /draft <name>: <text> overwrite a section draft locally
  /document             print the assembled document
  /export [docx|pdf]    write the document to a file
  /save                 persist the finished contract on the drafting service
  /submit [--force]     submit the finished draft set to the catalog
  /reset                start over from a blank conversation
  /quit                 leave the chat
Anything else is sent to the assistant.`

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Draft a contract in conversation with the assistant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := &chatSession{
				app:      app,
				workflow: app.newWorkflow(cmd.Context()),
				cmd:      cmd,
			}
			return session.run(cmd.Context())
		},
	}
}

// chatSession is the interactive loop around one Workflow. It tracks
// how much of the transcript has been printed and the draft text last
// shown per section so revisions can be rendered as diffs.
type chatSession struct {
	app      *app
	workflow *application.Workflow
	cmd      *cobra.Command

	printedTurns int
	shownDrafts  map[string]string
}

func (s *chatSession) run(ctx context.Context) error {
	out := s.cmd.OutOrStdout()
	s.shownDrafts = map[string]string{}

	_, _ = fmt.Fprintln(out, "Describe the contract you need. Type /help for commands.")

	scanner := bufio.NewScanner(s.cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := s.command(ctx, line)
			if err != nil {
				_, _ = fmt.Fprintln(out, err.Error())
			}
			if quit {
				return nil
			}
			continue
		}

		if err := s.turn(ctx, "Thinking...", func(turnCtx context.Context) error {
			return s.workflow.Submit(turnCtx, line)
		}); err != nil {
			_, _ = fmt.Fprintln(out, err.Error())
		}
	}
}

// command handles one slash command. The returned bool requests quit.
func (s *chatSession) command(ctx context.Context, line string) (bool, error) {
	out := s.cmd.OutOrStdout()
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "/help":
		_, _ = fmt.Fprintln(out, chatHelp)
	case "/quit", "/exit":
		return true, nil
	case "/reset":
		s.workflow.Reset()
		s.printedTurns = 0
		s.shownDrafts = map[string]string{}
		_, _ = fmt.Fprintln(out, "Conversation reset. Describe the contract you need.")
	case "/structure":
		_, _ = fmt.Fprintln(out, s.app.renderer.Structure(s.workflow.Snapshot()))
	case "/progress":
		_, _ = fmt.Fprintln(out, s.app.renderer.Progress(s.workflow.Snapshot()))
	case "/approve":
		return false, s.turn(ctx, "Starting drafting...", s.workflow.ApproveStructure)
	case "/confirm":
		return false, s.turn(ctx, "Confirming draft...", s.workflow.ConfirmDraft)
	case "/rename":
		index, value, err := indexedArg(rest)
		if err != nil {
			return false, err
		}
		return false, s.workflow.RenameSection(index, value)
	case "/purpose":
		index, value, err := indexedArg(rest)
		if err != nil {
			return false, err
		}
		return false, s.workflow.SetSectionPurpose(index, value)
	case "/addsub":
		index, value, err := indexedArg(rest)
		if err != nil {
			return false, err
		}
		heading, definition, _ := strings.Cut(value, "|")
		return false, s.workflow.AddSubsection(index, domain.Subsection{
			Heading:    strings.TrimSpace(heading),
			Definition: strings.TrimSpace(definition),
		})
	case "/rmsub":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return false, errors.New("usage: /rmsub <section> <subsection>")
		}
		section, err := sectionNumber(fields[0])
		if err != nil {
			return false, err
		}
		sub, err := sectionNumber(fields[1])
		if err != nil {
			return false, err
		}
		return false, s.workflow.RemoveSubsection(section, sub)
	case "/draft":
		heading, text, found := strings.Cut(rest, ":")
		if !found || strings.TrimSpace(heading) == "" {
			return false, errors.New("usage: /draft <section>: <text>")
		}
		return false, s.workflow.SetDraft(strings.TrimSpace(heading), strings.TrimSpace(text))
	case "/document":
		snap := s.workflow.Snapshot()
		doc := snap.Drafts.FullDocument()
		if doc == "" {
			_, _ = fmt.Fprintln(out, "Nothing drafted yet.")
			break
		}
		_, _ = fmt.Fprintln(out, doc)
	case "/export":
		return false, s.export(rest)
	case "/save":
		return false, s.save(ctx)
	case "/submit":
		return false, s.submit(ctx, rest == "--force")
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

// turn runs one network-bound workflow action behind the spinner, then
// prints whatever the transcript gained.
func (s *chatSession) turn(ctx context.Context, label string, action func(context.Context) error) error {
	err := runTurnSpinner(ctx, s.cmd.ErrOrStderr(), label, action)
	s.printNewTurns()
	return err
}

func (s *chatSession) printNewTurns() {
	out := s.cmd.OutOrStdout()
	snap := s.workflow.Snapshot()

	for _, turn := range snap.Turns[min(s.printedTurns, len(snap.Turns)):] {
		if turn.Role == domain.RoleUser {
			continue
		}
		_, _ = fmt.Fprintln(out, s.app.renderer.Turn(turn))
		s.printSectionDiff(snap, turn.Section)
	}
	s.printedTurns = len(snap.Turns)

	if snap.Stage == domain.StageStructureReview {
		_, _ = fmt.Fprintln(out, s.app.renderer.Structure(snap))
	}
}

// printSectionDiff shows what changed when a section the user already
// saw comes back revised.
func (s *chatSession) printSectionDiff(snap application.Snapshot, section string) {
	if section == "" {
		return
	}
	current, ok := snap.Drafts.Draft(section)
	if !ok || !snap.Drafts.IsDrafted(section) {
		return
	}
	if previous, seen := s.shownDrafts[section]; seen && previous != current {
		_, _ = fmt.Fprintln(s.cmd.OutOrStdout(), s.app.renderer.DraftDiff(previous, current))
	}
	s.shownDrafts[section] = current
}

func (s *chatSession) export(rest string) error {
	format := "docx"
	if rest != "" {
		format = strings.ToLower(strings.Fields(rest)[0])
	}

	snap := s.workflow.Snapshot()
	sections := exportSections(snap)
	return writeDocument(s.cmd, format, snap.Title, sections)
}

func (s *chatSession) save(ctx context.Context) error {
	snap := s.workflow.Snapshot()
	if snap.SessionID == "" || snap.Drafts.DraftedCount() == 0 {
		return export.ErrNothingToExport
	}

	contract := domain.FinalContract{
		Title:    snap.Title,
		Sections: snap.Sections,
		Drafts:   snap.Drafts.Snapshot(),
	}
	if err := s.app.intake.Save(ctx, snap.SessionID, contract); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.cmd.OutOrStdout(), "Saved to the drafting service.")
	return nil
}

func (s *chatSession) submit(ctx context.Context, force bool) error {
	snap := s.workflow.Snapshot()
	if snap.Drafts.DraftedCount() == 0 {
		return export.ErrNothingToExport
	}

	submission := ports.CatalogSubmission{
		Title:  snap.Title,
		Idea:   snap.Idea,
		Drafts: snap.Drafts.Snapshot(),
		Status: domain.StatusSubmitted,
		Metadata: ports.SubmissionMetadata{
			SubmittedBy:   snap.User.UserID,
			Department:    snap.User.Department,
			SectionsCount: snap.Drafts.Len(),
		},
	}

	sessionID, err := s.app.catalog.Submit(ctx, submission, force)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySubmitted) {
			return fmt.Errorf("this draft set was already submitted; use /submit --force to submit anyway")
		}
		return err
	}

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), "Submitted to the catalog as %s.\n", sessionID)
	return nil
}

// exportSections flattens the snapshot's drafted sections in display
// order.
func exportSections(snap application.Snapshot) []domain.ExportSection {
	sections := make([]domain.ExportSection, 0, snap.Drafts.Len())
	for _, heading := range snap.Drafts.Headings() {
		body := ""
		if snap.Drafts.IsDrafted(heading) {
			body, _ = snap.Drafts.Draft(heading)
		}
		sections = append(sections, domain.ExportSection{Heading: heading, Body: body})
	}
	return sections
}

func writeDocument(cmd *cobra.Command, format, title string, sections []domain.ExportSection) error {
	var filename string
	switch format {
	case "docx":
		filename = export.DocxFilename(title)
	case "pdf":
		filename = export.PDFFilename(title)
	default:
		return fmt.Errorf("unsupported export format %q (docx or pdf)", format)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch format {
	case "docx":
		err = export.WriteDocx(file, title, sections)
	case "pdf":
		err = export.WritePDF(file, title, sections)
	}
	if err != nil {
		_ = os.Remove(filename)
		return err
	}

	absolute, pathErr := filepath.Abs(filename)
	if pathErr != nil {
		absolute = filename
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", absolute)
	return nil
}

func indexedArg(rest string) (int, string, error) {
	number, value, found := strings.Cut(rest, " ")
	if !found || strings.TrimSpace(value) == "" {
		return 0, "", errors.New("usage: /<command> <section number> <text>")
	}
	index, err := sectionNumber(number)
	if err != nil {
		return 0, "", err
	}
	return index, strings.TrimSpace(value), nil
}

// sectionNumber converts the 1-based number users see into the
// 0-based index the workflow uses.
func sectionNumber(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a section number", raw)
	}
	return n - 1, nil
}
