package hashutil

import "testing"

func TestIdentity(t *testing.T) {
	t.Parallel()

	a := Identity("salt", "203.0.113.7")
	if len(a) != 40 {
		t.Fatalf("expected 40 hex chars got %d", len(a))
	}
	if a != Identity("salt", "203.0.113.7") {
		t.Error("expected stable hash")
	}
	if a == Identity("other", "203.0.113.7") {
		t.Error("expected salt to change the hash")
	}
}
