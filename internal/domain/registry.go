package domain

import (
	"sort"
	"strings"
)

// DraftPlaceholder is the initial registry value for every section when
// a structure is first adopted. It renders in progress views but is
// never exported as document content.
const DraftPlaceholder = "Not drafted yet."

// DraftRegistry holds the authoritative draft text per contract
// section, independent of the chat transcript. Display order is the
// explicit heading list; the map is a lookup table only and is never
// relied upon for ordering.
type DraftRegistry struct {
	order  []string
	drafts map[string]string
}

func NewDraftRegistry() *DraftRegistry {
	return &DraftRegistry{drafts: map[string]string{}}
}

// InitSections resets the registry to the given display order with a
// placeholder draft per heading.
func (r *DraftRegistry) InitSections(headings []string) {
	r.order = append([]string(nil), headings...)
	r.drafts = make(map[string]string, len(headings))
	for _, h := range headings {
		r.drafts[h] = DraftPlaceholder
	}
}

// SetDraft unconditionally overwrites the draft for heading. A heading
// that was never initialized is appended to the display order.
func (r *DraftRegistry) SetDraft(heading, text string) {
	if r.drafts == nil {
		r.drafts = map[string]string{}
	}
	if _, ok := r.drafts[heading]; !ok {
		r.order = append(r.order, heading)
	}
	r.drafts[heading] = text
}

func (r *DraftRegistry) Draft(heading string) (string, bool) {
	text, ok := r.drafts[heading]
	return text, ok
}

// IsDrafted reports whether heading carries real content, as opposed to
// the initial placeholder or whitespace.
func (r *DraftRegistry) IsDrafted(heading string) bool {
	text, ok := r.drafts[heading]
	if !ok {
		return false
	}
	return strings.TrimSpace(text) != "" && text != DraftPlaceholder
}

// Headings returns the display order.
func (r *DraftRegistry) Headings() []string {
	return append([]string(nil), r.order...)
}

func (r *DraftRegistry) Len() int {
	return len(r.order)
}

// DraftedCount reports how many sections carry real content.
func (r *DraftRegistry) DraftedCount() int {
	n := 0
	for _, h := range r.order {
		if r.IsDrafted(h) {
			n++
		}
	}
	return n
}

// Snapshot returns the registry as a plain map for serialization.
func (r *DraftRegistry) Snapshot() map[string]string {
	out := make(map[string]string, len(r.drafts))
	for h, text := range r.drafts {
		out[h] = text
	}
	return out
}

// ReplaceAll overwrites the whole registry from a draft map, keeping
// the existing display order for known headings and appending unknown
// ones in the order given.
func (r *DraftRegistry) ReplaceAll(order []string, drafts map[string]string) {
	r.order = r.order[:0]
	r.drafts = make(map[string]string, len(drafts))
	for _, h := range order {
		if text, ok := drafts[h]; ok {
			r.order = append(r.order, h)
			r.drafts[h] = text
		}
	}
	for _, h := range sortedKeys(drafts) {
		if _, ok := r.drafts[h]; !ok {
			r.order = append(r.order, h)
			r.drafts[h] = drafts[h]
		}
	}
}

// Rename moves the draft stored under from to the heading to, keeping
// its position in the display order.
func (r *DraftRegistry) Rename(from, to string) {
	text, ok := r.drafts[from]
	if !ok || from == to {
		return
	}
	delete(r.drafts, from)
	r.drafts[to] = text
	for i, h := range r.order {
		if h == from {
			r.order[i] = to
			return
		}
	}
}

// FullDocument concatenates every drafted section in display order as a
// heading marker followed by the draft text. Sections without real
// content are skipped.
func (r *DraftRegistry) FullDocument() string {
	var b strings.Builder
	for _, h := range r.order {
		if !r.IsDrafted(h) {
			continue
		}
		text := r.drafts[h]
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## ")
		b.WriteString(h)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(text))
	}
	return b.String()
}

func sortedKeys(drafts map[string]string) []string {
	keys := make([]string, 0, len(drafts))
	for k := range drafts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *DraftRegistry) Clone() *DraftRegistry {
	clone := &DraftRegistry{
		order:  append([]string(nil), r.order...),
		drafts: make(map[string]string, len(r.drafts)),
	}
	for h, text := range r.drafts {
		clone.drafts[h] = text
	}
	return clone
}
