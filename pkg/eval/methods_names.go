package eval

import "github.com/xvandervort/graphoid/pkg/value"

// builtinMethodNames backs `responds_to?`: the set of
// method names the built-in dispatch table for kind recognizes,
// independent of anything a graph's own __methods__ branch adds. Kept
// in sync by hand with each callXMethod switch as those are written.
func builtinMethodNames(kind value.Kind) map[string]bool {
	switch kind {
	case value.KindGraph:
		return graphMethodNames
	case value.KindList:
		return listMethodNames
	case value.KindHash:
		return hashMethodNames
	case value.KindString:
		return stringMethodNames
	case value.KindMatchResults:
		return matchResultsMethodNames
	case value.KindNumber:
		return numberMethodNames
	case value.KindModule:
		return moduleMethodNames
	default:
		return nil
	}
}

var graphMethodNames = setOf(
	"new", "clone", "add_node", "add_edge", "remove_node", "remove_edge",
	"set_edge_weight", "nodes", "edges", "visualize", "match", "with_ruleset", "include",
	"bfs", "dfs", "dijkstra", "shortest_path", "all_shortest_paths", "topo_sort",
	"add_rule", "remove_rule", "has_rule", "rule", "clear_rules",
	"add_behavior", "has_behavior",
)

func setOf(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// unionOf merges one or more method-name sets, used where a Value
// variant's own method table is extended with a shared table (List and
// Hash both add ruleBehaviorMethodNames on top of their own methods).
func unionOf(sets ...map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, s := range sets {
		for n := range s {
			out[n] = true
		}
	}
	return out
}
