package builder

import "github.com/holesynth/synthcore/internal/types"

// EnumTypes enumerates types reachable from b's type roots up to maxSize,
// using the same size-splitting discipline Build uses for expressions:
// size 1 is the type roots themselves, larger sizes wrap a smaller type in
// Bag or Maybe (at most maxBagDepth Bags are nested inside one another).
// Nothing in Build calls this — the original source only used type
// enumeration indirectly — and no test in this package calls it either
// (SPEC_FULL §13).
func (b *Builder) EnumTypes(maxSize int) []types.Type {
	var out []types.Type
	seen := make(map[string]bool)
	add := func(t types.Type) {
		k := t.String()
		if !seen[k] {
			seen[k] = true
			out = append(out, t)
		}
	}
	var enum func(size, bagDepth int) []types.Type
	enum = func(size, bagDepth int) []types.Type {
		var ts []types.Type
		if size == 1 {
			ts = append(ts, b.typeRoots...)
		} else {
			if bagDepth < b.maxBagDepth {
				for _, inner := range enum(size-1, bagDepth+1) {
					ts = append(ts, types.Bag{Elem: inner})
				}
			}
			for _, inner := range enum(size-1, bagDepth) {
				ts = append(ts, types.Maybe{Elem: inner})
			}
		}
		return ts
	}
	for size := 1; size <= maxSize; size++ {
		for _, t := range enum(size, 0) {
			add(t)
		}
	}
	return out
}
