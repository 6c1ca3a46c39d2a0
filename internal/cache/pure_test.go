package cache

import "testing"

func TestHashSubject(t *testing.T) {
	t.Parallel()

	first := hashSubject("caller-1")
	second := hashSubject("caller-1")
	other := hashSubject("caller-2")

	if first != second {
		t.Errorf("hashSubject not deterministic: %q vs %q", first, second)
	}
	if first == other {
		t.Error("distinct subjects produced the same hash")
	}
	if len(first) != 16 {
		t.Errorf("hash length = %d, want 16 hex chars", len(first))
	}
	for _, r := range first {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Errorf("hash contains non-hex rune %q", r)
		}
	}
}

func TestHashSubject_EmptySubject(t *testing.T) {
	t.Parallel()

	if got := hashSubject(""); len(got) != 16 {
		t.Errorf("hash length = %d, want 16", len(got))
	}
}
