package toon

import (
	"math"
	"strings"
)

// foldKeys applies safe key folding to a Value tree, collapsing chains of
// single-key objects into dotted keys. The input tree is not mutated.
func foldKeys(v Value, opts *EncodeOptions) Value {
	budget := opts.FlattenDepth
	if budget <= 0 {
		budget = math.MaxInt
	}
	return foldValue(v, budget)
}

// foldValue recurses into containers. budget caps the number of segments a
// folded key produced at this level may carry.
func foldValue(v Value, budget int) Value {
	switch v.Kind() {
	case KindArray:
		items := v.Items()
		folded := make([]Value, len(items))
		for i, item := range items {
			folded[i] = foldValue(item, budget)
		}
		return Array(folded...)
	case KindObject:
		return ObjectValue(foldObject(v.Object(), budget))
	default:
		return v
	}
}

func foldObject(obj *Object, budget int) *Object {
	result := NewObject()
	taken := make(map[string]bool, obj.Len())
	for _, key := range obj.Keys() {
		taken[key] = true
	}

	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)

		segments, terminal := foldChain(key, v, budget)
		if len(segments) < 2 {
			result.Set(key, foldValue(v, budget))
			continue
		}

		folded := strings.Join(segments, ".")
		// A dotted sibling (a literal key that happens to contain dots, or
		// another folded result) with the same spelling would collide; keep
		// the chain nested instead.
		if folded != key && (taken[folded] || result.Has(folded)) {
			result.Set(key, foldValue(v, budget))
			continue
		}

		remaining := budget - (len(segments) - 1)
		if remaining < 1 {
			remaining = 1
		}
		result.Set(folded, foldValue(terminal, remaining))
	}
	return result
}

// foldChain walks single-key objects starting at key's value, collecting
// bare-identifier segments until the chain ends or the budget is spent. It
// returns the composed segments and the chain's terminal value.
func foldChain(key string, v Value, budget int) ([]string, Value) {
	if !identifierRegex.MatchString(key) {
		return []string{key}, v
	}

	segments := []string{key}
	current := v
	for len(segments) < budget {
		if current.Kind() != KindObject || current.Object().Len() != 1 {
			break
		}
		only := current.Object().Keys()[0]
		if !identifierRegex.MatchString(only) {
			break
		}
		segments = append(segments, only)
		current, _ = current.Object().Get(only)
	}
	return segments, current
}
