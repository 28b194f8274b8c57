// Package selection implements the chapter picker used while recording
// a reading: tap to toggle single chapters, tap two chapters to select
// the whole range between them. State is scoped to one book; switching
// books resets it.
package selection

import "sort"

// Picker tracks the chapter selection for one book session. Chapters
// already completed are never selectable and never act as a range
// endpoint
type Picker struct {
	completed map[int]bool
	selected  map[int]bool
	anchor    int
	hasAnchor bool
}

// NewPicker creates a picker for a book whose completed chapters are
// given. The completed set is not copied; callers must not mutate it
func NewPicker(completed map[int]bool) *Picker {
	if completed == nil {
		completed = map[int]bool{}
	}
	return &Picker{
		completed: completed,
		selected:  make(map[int]bool),
	}
}

// Pick processes one tap on a chapter and reports whether the
// selection changed.
//
// Rules:
//   - a completed chapter is ignored
//   - tapping a selected chapter deselects it and always breaks range
//     mode
//   - tapping with no anchor selects the chapter and sets it as anchor
//   - tapping with an anchor selects every not-yet-completed chapter in
//     the inclusive range between anchor and tap, then clears the anchor
func (p *Picker) Pick(chapter int) bool {
	if p.completed[chapter] {
		return false
	}

	if p.selected[chapter] {
		delete(p.selected, chapter)
		p.hasAnchor = false
		return true
	}

	if !p.hasAnchor {
		p.selected[chapter] = true
		p.anchor = chapter
		p.hasAnchor = true
		return true
	}

	lo, hi := p.anchor, chapter
	if lo > hi {
		lo, hi = hi, lo
	}
	for c := lo; c <= hi; c++ {
		if !p.completed[c] {
			p.selected[c] = true
		}
	}
	p.hasAnchor = false
	return true
}

// Selected returns the current selection in ascending order
func (p *Picker) Selected() []int {
	chapters := make([]int, 0, len(p.selected))
	for c := range p.selected {
		chapters = append(chapters, c)
	}
	sort.Ints(chapters)
	return chapters
}

// IsSelected reports whether a chapter is currently selected
func (p *Picker) IsSelected(chapter int) bool {
	return p.selected[chapter]
}

// Count returns the number of selected chapters
func (p *Picker) Count() int {
	return len(p.selected)
}

// Clear empties the selection and drops the anchor, keeping the
// completed set
func (p *Picker) Clear() {
	p.selected = make(map[int]bool)
	p.hasAnchor = false
}
