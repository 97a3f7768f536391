package builtin

import "github.com/xvandervort/graphoid/pkg/value"

// HashDiff implements `hash.diff(other)` (grounded on apoc/diff): the
// keys present in a but not b, the keys present in b but not a, and the
// keys present in both whose values differ.
func HashDiff(a, b *value.Hash) *value.Hash {
	onlyA := map[string]value.Value{}
	onlyB := map[string]value.Value{}
	changed := map[string]value.Value{}

	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		if bv, ok := b.Get(k); ok {
			if !value.Equals(av, bv) {
				pair := value.NewHash(map[string]value.Value{"old": av, "new": bv})
				changed[k] = value.FromHash(pair)
			}
		} else {
			onlyA[k] = av
		}
	}
	for _, k := range b.Keys() {
		if _, ok := a.Get(k); !ok {
			v, _ := b.Get(k)
			onlyB[k] = v
		}
	}

	out := value.NewHash(nil)
	_, _ = out.Set("only_in_first", value.FromHash(value.NewHash(onlyA)))
	_, _ = out.Set("only_in_second", value.FromHash(value.NewHash(onlyB)))
	_, _ = out.Set("changed", value.FromHash(value.NewHash(changed)))
	return out
}
