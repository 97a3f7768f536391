// Package graph implements graph-core algorithms over *value.Graph:
// traversal (BFS/DFS), shortest-path search (Dijkstra), topological
// sort, and the pattern-matching engine. It is kept
// separate from pkg/value (which owns the Graph data structure itself),
// decoupled from the node and edge types the way graph-algorithm
// helpers are decoupled from a storage layer's own types.
package graph

import (
	"container/heap"
	"sort"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/value"
)

// BFS walks g breadth-first from start over the data layer only,
// returning visited node ids in visitation order.
func BFS(g *value.Graph, start string) ([]string, error) {
	if _, ok := g.Nodes[start]; !ok {
		return nil, gerr.New(gerr.RuntimeError, gerr.Position{}, "bfs: node %q does not exist", start)
	}
	visited := map[string]bool{start: true}
	order := []string{start}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range sortedNeighbors(g, cur) {
			if visited[n] || g.IsReservedNode(n) {
				continue
			}
			visited[n] = true
			order = append(order, n)
			queue = append(queue, n)
		}
	}
	return order, nil
}

// DFS walks g depth-first from start over the data layer only.
func DFS(g *value.Graph, start string) ([]string, error) {
	if _, ok := g.Nodes[start]; !ok {
		return nil, gerr.New(gerr.RuntimeError, gerr.Position{}, "dfs: node %q does not exist", start)
	}
	visited := map[string]bool{}
	var order []string
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		for _, n := range sortedNeighbors(g, id) {
			if !g.IsReservedNode(n) {
				walk(n)
			}
		}
	}
	walk(start)
	return order, nil
}

func sortedNeighbors(g *value.Graph, id string) []string {
	rec := g.Nodes[id]
	out := make([]string, 0, len(rec.Neighbors))
	for n := range rec.Neighbors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// dijkstraItem is one entry of the priority queue Dijkstra uses to
// always expand the currently-closest unvisited node next.
type dijkstraItem struct {
	id       string
	priority float64
}

type dijkstraQueue []dijkstraItem

func (q dijkstraQueue) Len() int            { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q dijkstraQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *dijkstraQueue) Push(x interface{}) { *q = append(*q, x.(dijkstraItem)) }
func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Dijkstra returns the shortest weighted path from start to end (edges
// without a weight count as 1), or nil if no path exists.
func Dijkstra(g *value.Graph, start, end string) ([]string, float64, error) {
	if _, ok := g.Nodes[start]; !ok {
		return nil, 0, gerr.New(gerr.RuntimeError, gerr.Position{}, "dijkstra: node %q does not exist", start)
	}
	if _, ok := g.Nodes[end]; !ok {
		return nil, 0, gerr.New(gerr.RuntimeError, gerr.Position{}, "dijkstra: node %q does not exist", end)
	}
	dist := map[string]float64{start: 0}
	prev := map[string]string{}
	visited := map[string]bool{}

	pq := &dijkstraQueue{{id: start, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(dijkstraItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if cur.id == end {
			return reconstructPath(prev, start, end), dist[end], nil
		}
		rec := g.Nodes[cur.id]
		for n, edge := range rec.Neighbors {
			if visited[n] || g.IsReservedNode(n) {
				continue
			}
			w := 1.0
			if edge.Weight != nil {
				w = *edge.Weight
			}
			alt := dist[cur.id] + w
			if prevDist, ok := dist[n]; !ok || alt < prevDist {
				dist[n] = alt
				prev[n] = cur.id
				heap.Push(pq, dijkstraItem{id: n, priority: alt})
			}
		}
	}
	return nil, 0, nil
}

func reconstructPath(prev map[string]string, start, end string) []string {
	path := []string{end}
	cur := end
	for cur != start {
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		path = append([]string{p}, path...)
		cur = p
	}
	return path
}

// TopoSort returns a topological order of g's data nodes (Kahn's
// algorithm). Returns an error if g has a cycle.
func TopoSort(g *value.Graph) ([]string, error) {
	indegree := map[string]int{}
	ids := g.DataNodeIDs(false)
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, id := range ids {
		for n := range g.Nodes[id].Neighbors {
			if !g.IsReservedNode(n) {
				indegree[n]++
			}
		}
	}
	var queue []string
	for _, id := range ids {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)
	var order []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		var freed []string
		for _, n := range sortedNeighbors(g, cur) {
			if g.IsReservedNode(n) {
				continue
			}
			indegree[n]--
			if indegree[n] == 0 {
				freed = append(freed, n)
			}
		}
		sort.Strings(freed)
		queue = append(queue, freed...)
	}
	if len(order) != len(ids) {
		return nil, gerr.New(gerr.RuntimeError, gerr.Position{}, "topo_sort: graph has a cycle")
	}
	return order, nil
}
