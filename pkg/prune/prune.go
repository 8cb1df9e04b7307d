// Package prune strips unset values out of nested request payloads before
// they are encoded as JSON.
package prune

// Map removes every nil value from m, recursing into nested maps and into
// maps held by slices. A nested map that ends up empty is removed as well.
//
// Keys listed in exclude are kept verbatim at any depth, which lets callers
// send fields the wire format requires even when they are null.
//
// Map works in place and returns m.
func Map(m map[string]any, exclude ...string) map[string]any {
	if m == nil {
		return nil
	}

	keep := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		keep[k] = struct{}{}
	}

	pruneMap(m, keep)
	return m
}

func pruneMap(m map[string]any, keep map[string]struct{}) {
	var drop []string

	for k, v := range m {
		if _, ok := keep[k]; ok {
			continue
		}

		switch val := v.(type) {
		case nil:
			drop = append(drop, k)
		case map[string]any:
			pruneMap(val, keep)
			if len(val) == 0 {
				drop = append(drop, k)
			}
		case []map[string]any:
			for _, item := range val {
				pruneMap(item, keep)
			}
		case []any:
			for _, item := range val {
				if child, ok := item.(map[string]any); ok {
					pruneMap(child, keep)
				}
			}
		}
	}

	for _, k := range drop {
		delete(m, k)
	}
}
