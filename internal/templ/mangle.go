package templ

import (
	"fmt"

	"cxfront/internal/source"
)

// MangledName derives the short instance name for a key: the
// template's base name plus the canonical key hash in hex. Deriving it
// from the hash (not from underscore-joined argument names) keeps a
// type literally named "foo_int" distinct from the instantiation
// foo<int>. Uniqueness is enforced against the registry: in the
// unlikely event two distinct keys share a hash, a numeric suffix is
// probed.
func (r *Registry) MangledName(key InstKey) source.StringID {
	if r.strings == nil {
		return source.NoStringID
	}
	base := source.Unqualify(r.name(key.Template))
	h := key.Hash()
	candidate := fmt.Sprintf("%s$%016x", base, h)
	for n := 2; ; n++ {
		id := r.strings.Intern(candidate)
		inst, taken := r.byName[id]
		if !taken || inst.Key.Equal(key) {
			return id
		}
		candidate = fmt.Sprintf("%s$%016x.%d", base, h, n)
	}
}
