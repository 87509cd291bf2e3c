package analysis

import "testing"

func TestResultCache(t *testing.T) {
	c := NewResultCache()

	if _, ok := c.Get("show regions", "fp1"); ok {
		t.Error("empty cache should miss")
	}

	c.Set("show regions", "fp1", Result{Text: "answer"})

	r, ok := c.Get("show regions", "fp1")
	if !ok || r.Text != "answer" {
		t.Errorf("expected cached answer, got %+v ok=%v", r, ok)
	}

	// Question normalization: case and surrounding space are ignored.
	if _, ok := c.Get("  SHOW Regions ", "fp1"); !ok {
		t.Error("lookup should be case and whitespace insensitive")
	}

	// A different table fingerprint never sees the entry.
	if _, ok := c.Get("show regions", "fp2"); ok {
		t.Error("different fingerprint should miss")
	}

	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", c.Len())
	}
	if _, ok := c.Get("show regions", "fp1"); ok {
		t.Error("cleared cache should miss")
	}
}
