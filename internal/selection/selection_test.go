package selection

import (
	"reflect"
	"testing"
)

func TestPickSingle(t *testing.T) {
	p := NewPicker(nil)

	if !p.Pick(3) {
		t.Fatal("Pick(3) reported no change")
	}
	if got := p.Selected(); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Selected() = %v, want [3]", got)
	}
}

func TestPickRange(t *testing.T) {
	p := NewPicker(map[int]bool{5: true})

	p.Pick(3)
	p.Pick(7)

	// 5 is completed and stays out of the range
	want := []int{3, 4, 6, 7}
	if got := p.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestPickRangeReversed(t *testing.T) {
	p := NewPicker(nil)

	p.Pick(7)
	p.Pick(3)

	want := []int{3, 4, 5, 6, 7}
	if got := p.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestPickCompletedIgnored(t *testing.T) {
	p := NewPicker(map[int]bool{2: true})

	if p.Pick(2) {
		t.Error("Pick(2) changed the selection for a completed chapter")
	}
	if p.Count() != 0 {
		t.Errorf("Count() = %d, want 0", p.Count())
	}
}

func TestDeselectBreaksRangeMode(t *testing.T) {
	p := NewPicker(nil)

	p.Pick(3) // anchor set
	p.Pick(3) // deselect, anchor dropped
	if p.Count() != 0 {
		t.Fatalf("Count() after deselect = %d, want 0", p.Count())
	}

	// Next pick starts a fresh anchor rather than completing a range
	p.Pick(7)
	if got := p.Selected(); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("Selected() = %v, want [7]", got)
	}
}

func TestRangeConsumesAnchor(t *testing.T) {
	p := NewPicker(nil)

	p.Pick(1)
	p.Pick(3) // range 1..3, anchor cleared
	p.Pick(6) // fresh anchor, not a 3..6 range

	want := []int{1, 2, 3, 6}
	if got := p.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestDeselectOneFromRange(t *testing.T) {
	p := NewPicker(nil)

	p.Pick(1)
	p.Pick(4)
	p.Pick(2) // deselect a middle chapter

	want := []int{1, 3, 4}
	if got := p.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
	if p.IsSelected(2) {
		t.Error("IsSelected(2) = true after deselect")
	}
}

func TestClear(t *testing.T) {
	p := NewPicker(map[int]bool{5: true})

	p.Pick(1)
	p.Pick(3)
	p.Clear()

	if p.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", p.Count())
	}
	// Completed set survives a clear
	if p.Pick(5) {
		t.Error("Pick(5) selected a completed chapter after Clear")
	}
	// Anchor is gone: next two picks form a new range
	p.Pick(1)
	p.Pick(3)
	if got := p.Selected(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Selected() = %v, want [1 2 3]", got)
	}
}
