// Package chat renders the conversational workflow for the terminal:
// transcript turns, the proposed structure, drafting progress, and
// draft revision diffs.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/draftforge/contract-draft-cli/internal/application"
	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const markdownWrapWidth = 100

type Renderer struct {
	styles   styles
	markdown *glamour.TermRenderer
	differ   *diffmatchpatch.DiffMatchPatch
}

func NewRenderer() (*Renderer, error) {
	markdown, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWrapWidth),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}

	return &Renderer{
		styles:   newStyles(),
		markdown: markdown,
		differ:   diffmatchpatch.New(),
	}, nil
}

// Turn renders one transcript entry. Assistant turns go through the
// markdown renderer; user and error turns stay plain.
func (r *Renderer) Turn(turn domain.Turn) string {
	switch {
	case turn.Err:
		return r.styles.errorTurn.Render("! " + turn.Content)
	case turn.Role == domain.RoleUser:
		return r.styles.user.Render("you> ") + turn.Content
	default:
		return r.assistantTurn(turn)
	}
}

func (r *Renderer) assistantTurn(turn domain.Turn) string {
	lines := make([]string, 0, 3)
	if turn.Section != "" {
		context := turn.Section
		if turn.Subsection != "" {
			context += " / " + turn.Subsection
		}
		lines = append(lines, r.styles.heading.Render(context))
	}

	body, err := r.markdown.Render(turn.Content)
	if err != nil {
		body = turn.Content
	}
	lines = append(lines, strings.TrimRight(body, "\n"))

	if turn.Reason != "" {
		lines = append(lines, r.styles.reason.Render("why: "+turn.Reason))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Structure renders the proposed contract structure for review.
func (r *Renderer) Structure(snapshot application.Snapshot) string {
	if len(snapshot.Sections) == 0 {
		return r.styles.empty.Render("No structure proposed yet.")
	}

	lines := []string{r.styles.title.Render(snapshot.Title)}
	if snapshot.Idea != "" {
		lines = append(lines, r.styles.purpose.Render(snapshot.Idea), "")
	}

	for i, section := range snapshot.Sections {
		lines = append(lines, r.styles.heading.Render(fmt.Sprintf("%d. %s", i+1, section.Heading)))
		if section.Purpose != "" {
			lines = append(lines, r.styles.purpose.Render("   "+section.Purpose))
		}
		for j, sub := range section.Subsections {
			entry := fmt.Sprintf("   %d.%d %s", i+1, j+1, sub.Heading)
			if sub.Definition != "" {
				entry += " · " + sub.Definition
			}
			lines = append(lines, r.styles.subsection.Render(entry))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Progress renders the drafting state: a progress bar plus one line
// per section with its drafted marker.
func (r *Renderer) Progress(snapshot application.Snapshot) string {
	lines := []string{r.stageLine(snapshot.Stage)}

	if snapshot.Drafts == nil || snapshot.Drafts.Len() == 0 {
		lines = append(lines, r.styles.empty.Render("No sections yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	total := snapshot.Drafts.Len()
	drafted := snapshot.Drafts.DraftedCount()
	lines = append(lines, fmt.Sprintf("%s %d/%d sections drafted", r.progressBar(drafted, total, 24), drafted, total))

	for _, heading := range snapshot.Drafts.Headings() {
		marker := r.styles.pending.Render("[ ]")
		if snapshot.Drafts.IsDrafted(heading) {
			marker = r.styles.drafted.Render("[x]")
		}
		line := marker + " " + heading
		if heading == snapshot.ActiveSection && !snapshot.DraftingDone {
			line += r.styles.stage.Render("  <- drafting")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) stageLine(stage domain.Stage) string {
	label := fmt.Sprintf("stage: %s", stage.Label())
	if stage.Terminal() {
		return r.styles.stageDone.Render(label)
	}
	return r.styles.stage.Render(label)
}

func (r *Renderer) progressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := done * width / total
	if filled > width {
		filled = width
	}
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		r.styles.barBracket.Render("["),
		r.styles.barFill.Render(strings.Repeat("=", filled)),
		r.styles.barEmpty.Render(strings.Repeat("-", empty)),
		r.styles.barBracket.Render("]"),
	)
}

// DraftDiff renders a word-level diff between the previous and the
// revised draft of a section.
func (r *Renderer) DraftDiff(previous, revised string) string {
	if previous == revised {
		return r.styles.empty.Render("No changes.")
	}

	diffs := r.differ.DiffMain(previous, revised, false)
	diffs = r.differ.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(r.styles.diffInsert.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(r.styles.diffDelete.Render(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
