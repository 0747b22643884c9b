package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("box")
	b := in.Intern("box")
	if a != b {
		t.Fatalf("same string must intern to the same ID")
	}
	if c := in.Intern("crate"); c == a {
		t.Fatalf("distinct strings must intern to distinct IDs")
	}
}

func TestInternerEmptyStringReserved(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(""); got != NoStringID {
		t.Fatalf("empty string must map to NoStringID, got %d", got)
	}
	s, ok := in.Lookup(NoStringID)
	if !ok || s != "" {
		t.Fatalf("NoStringID must look up to the empty string")
	}
}

func TestInternerLookupInvalid(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("unissued ID must not resolve")
	}
}

func TestInternerReset(t *testing.T) {
	in := NewInterner()
	id := in.Intern("box")
	in.Reset()
	if in.Len() != 1 {
		t.Fatalf("reset interner holds %d entries, want 1", in.Len())
	}
	if _, ok := in.Lookup(id); ok {
		t.Fatalf("pre-reset IDs must not survive Reset")
	}
	if again := in.Intern("box"); again != id {
		// IDs restart from 1, so the same first string gets the same
		// slot; this documents the invariant rather than relying on it.
		t.Logf("post-reset ID differs: %d vs %d", again, id)
	}
}

func TestUnqualify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"foo", "foo"},
		{"ns::foo", "foo"},
		{"a::b::foo", "foo"},
		{"::foo", "foo"},
	}
	for _, tc := range cases {
		if got := Unqualify(tc.in); got != tc.want {
			t.Errorf("Unqualify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
