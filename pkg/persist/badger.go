// Package persist implements the `save_graph(g, path)` / `load_graph(path)`
// built-ins on top of an
// embedded BadgerDB key-value store: one key per
// node (prefixed, JSON-encoded), one key per edge, opened and closed
// around a single call rather than kept resident, since Graphoid has
// no long-running server process to own a persistent handle.
//
// Only a Graph's type and data layer are persisted — nodes and edges,
// never the `__methods__` branch: methods are source-level behavior,
// not data, and are rebuilt by re-running the declaring `graph` block,
// not by loading a snapshot. Rules, behaviors and rulesets are not
// saved either.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/xvandervort/graphoid/pkg/builtin"
	"github.com/xvandervort/graphoid/pkg/value"
)

// Key prefixes, using a single-byte prefix per record kind.
const (
	prefixMeta = byte(0x01) // meta -> graphMeta (graph Type)
	prefixNode = byte(0x02) // node:id -> nodeRecord
	prefixEdge = byte(0x03) // edge:from\x00to -> edgeRecord
)

type graphMeta struct {
	Type string `json:"type"`
}

type nodeRecord struct {
	ID        string `json:"id"`
	ValueJSON string `json:"value_json"`
}

type edgeRecord struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	EdgeType   string  `json:"edge_type"`
	Weight     *float64 `json:"weight,omitempty"`
	PropsJSON  string  `json:"props_json"`
}

func nodeKey(id string) []byte {
	return append([]byte{prefixNode}, []byte(id)...)
}

func edgeKey(from, to string) []byte {
	key := make([]byte, 0, 1+len(from)+1+len(to))
	key = append(key, prefixEdge)
	key = append(key, []byte(from)...)
	key = append(key, 0x00)
	key = append(key, []byte(to)...)
	return key
}

// Save writes g's data layer into a fresh (or existing, overwritten)
// BadgerDB database rooted at dbPath.
func Save(g *value.Graph, dbPath string) error {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("save_graph: opening %s: %w", dbPath, err)
	}
	defer db.Close()

	return db.Update(func(txn *badger.Txn) error {
		meta, err := json.Marshal(graphMeta{Type: g.Type})
		if err != nil {
			return fmt.Errorf("save_graph: encoding metadata: %w", err)
		}
		if err := txn.Set([]byte{prefixMeta}, meta); err != nil {
			return fmt.Errorf("save_graph: writing metadata: %w", err)
		}

		for _, id := range g.DataNodeIDs(false) {
			rec, ok := g.Nodes[id]
			if !ok {
				continue
			}
			valueJSON, err := builtin.ToJSON(rec.Value)
			if err != nil {
				return fmt.Errorf("save_graph: encoding node %q: %w", id, err)
			}
			data, err := json.Marshal(nodeRecord{ID: id, ValueJSON: valueJSON})
			if err != nil {
				return fmt.Errorf("save_graph: encoding node %q: %w", id, err)
			}
			if err := txn.Set(nodeKey(id), data); err != nil {
				return fmt.Errorf("save_graph: writing node %q: %w", id, err)
			}

			for neighbor, edge := range rec.Neighbors {
				if g.IsReservedNode(neighbor) {
					continue
				}
				propsJSON, err := builtin.ToJSON(value.FromHash(value.NewHash(edge.Properties)))
				if err != nil {
					return fmt.Errorf("save_graph: encoding edge %q->%q: %w", id, neighbor, err)
				}
				data, err := json.Marshal(edgeRecord{
					From: id, To: neighbor, EdgeType: edge.EdgeType,
					Weight: edge.Weight, PropsJSON: propsJSON,
				})
				if err != nil {
					return fmt.Errorf("save_graph: encoding edge %q->%q: %w", id, neighbor, err)
				}
				if err := txn.Set(edgeKey(id, neighbor), data); err != nil {
					return fmt.Errorf("save_graph: writing edge %q->%q: %w", id, neighbor, err)
				}
			}
		}
		return nil
	})
}

// Load opens the BadgerDB database at dbPath and rebuilds a fresh
// Graph from it: nodes are added first (so edge endpoints always
// resolve), then edges. Rules and behaviors are not part of a
// snapshot — a loaded graph starts with none, same as a plain `new()`.
func Load(dbPath string) (*value.Graph, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil).WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("load_graph: opening %s: %w", dbPath, err)
	}
	defer db.Close()

	graphType := "directed"
	var nodes []nodeRecord
	var edges []edgeRecord

	err = db.View(func(txn *badger.Txn) error {
		if item, err := txn.Get([]byte{prefixMeta}); err == nil {
			if err := item.Value(func(val []byte) error {
				var m graphMeta
				if err := json.Unmarshal(val, &m); err != nil {
					return err
				}
				graphType = m.Type
				return nil
			}); err != nil {
				return fmt.Errorf("load_graph: reading metadata: %w", err)
			}
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("load_graph: reading metadata: %w", err)
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) == 0 {
				continue
			}
			switch key[0] {
			case prefixNode:
				var rec nodeRecord
				if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); err != nil {
					return fmt.Errorf("load_graph: decoding node: %w", err)
				}
				nodes = append(nodes, rec)
			case prefixEdge:
				var rec edgeRecord
				if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); err != nil {
					return fmt.Errorf("load_graph: decoding edge: %w", err)
				}
				edges = append(edges, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g := value.NewGraph(graphType)
	for _, rec := range nodes {
		v, err := builtin.FromJSON(rec.ValueJSON)
		if err != nil {
			return nil, fmt.Errorf("load_graph: decoding node %q value: %w", rec.ID, err)
		}
		if _, err := g.AddNode(rec.ID, v); err != nil {
			return nil, fmt.Errorf("load_graph: restoring node %q: %w", rec.ID, err)
		}
	}
	for _, rec := range edges {
		props := map[string]value.Value{}
		pv, err := builtin.FromJSON(rec.PropsJSON)
		if err != nil {
			return nil, fmt.Errorf("load_graph: decoding edge %q->%q properties: %w", rec.From, rec.To, err)
		}
		if pv.Kind == value.KindHash {
			for _, k := range pv.Hash.Keys() {
				v, _ := pv.Hash.Get(k)
				props[k] = v
			}
		}
		if err := g.AddEdge(rec.From, rec.To, rec.EdgeType, rec.Weight, props); err != nil {
			return nil, fmt.Errorf("load_graph: restoring edge %q->%q: %w", rec.From, rec.To, err)
		}
	}
	return g, nil
}
