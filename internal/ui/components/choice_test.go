package components

import "testing"

func TestChoiceCommit(t *testing.T) {
	c := NewChoice("2+2?", []string{"3", "4", "5"}, -1)
	c.Selected = 1

	if got := c.Commit(); got != "4" {
		t.Errorf("commit = %q, want %q", got, "4")
	}
	if c.Chosen != 1 {
		t.Errorf("chosen = %d, want 1", c.Chosen)
	}
}

func TestChoiceCommitWithoutOptions(t *testing.T) {
	// A malformed question can arrive with no options; committing must
	// be a no-op, not a crash.
	c := NewChoice("q?", nil, -1)
	if got := c.Commit(); got != "" {
		t.Errorf("commit = %q, want empty", got)
	}
	if c.Chosen != -1 {
		t.Errorf("chosen = %d, want -1", c.Chosen)
	}
}

func TestNewChoiceStartsAtPriorAnswer(t *testing.T) {
	c := NewChoice("q?", []string{"a", "b", "c"}, 2)
	if c.Selected != 2 {
		t.Errorf("selected = %d, want 2", c.Selected)
	}
	if c.Chosen != 2 {
		t.Errorf("chosen = %d, want 2", c.Chosen)
	}
}
