package scraper

import "sort"

// Bounds on the structured-data walk. Product pages embed attacker-influenced
// JSON, so the traversal is iterative with hard caps instead of recursive.
const (
	maxWalkDepth = 32
	maxWalkNodes = 10000
)

type walkItem struct {
	node  any
	depth int
}

// findStructuredValue searches the decoded structured-data blocks depth-first
// for the first node containing key, visiting blocks in document order. Map
// keys are walked in sorted order so repeated runs over the same page return
// the same value. Returns (nil, false) when the key is absent or the walk
// bounds are exhausted.
func findStructuredValue(blocks []any, key string) (any, bool) {
	stack := make([]walkItem, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		stack = append(stack, walkItem{node: blocks[i], depth: 0})
	}

	visited := 0
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > maxWalkNodes {
			return nil, false
		}
		if item.depth > maxWalkDepth {
			continue
		}

		switch node := item.node.(type) {
		case map[string]any:
			if value, ok := node[key]; ok {
				return value, true
			}
			keys := make([]string, 0, len(node))
			for k := range node {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			// Push in reverse so the first key is popped first.
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, walkItem{node: node[keys[i]], depth: item.depth + 1})
			}
		case []any:
			for i := len(node) - 1; i >= 0; i-- {
				stack = append(stack, walkItem{node: node[i], depth: item.depth + 1})
			}
		}
	}
	return nil, false
}

// structuredString looks the key up and coerces the hit to a string.
func structuredString(blocks []any, key string) string {
	value, ok := findStructuredValue(blocks, key)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}
