// Package hierarchy turns a multi-level group-by into a parent/child node
// list for nested-rectangle charts.
//
// Nodes live in an arena and refer to their parent by index. Children are
// resolved per parent, so two branches can each hold a child with the same
// label (two departments both with a district named "Centro") without the
// tree merging them.
package hierarchy

import (
	"context"
	"slices"

	"geoeconomia/domain/aggregate"
	"geoeconomia/domain/economy"
)

// NoParent marks a top-level node.
const NoParent = -1

// Node is one rectangle of the tree.
type Node struct {
	ID     int              `json:"id"`
	Parent int              `json:"parent"`
	Level  int              `json:"level"`
	Label  string           `json:"label"`
	Path   []string         `json:"path"`
	Value  float64          `json:"value"`
	Values aggregate.Values `json:"values"`
}

// Tree is an arena of nodes. Parents always come before their children.
type Tree struct {
	Nodes []Node `json:"nodes"`

	top      map[string]int
	children [][]int
	index    []map[string]int
}

// ValueFunc derives a node's value from its aggregated values.
type ValueFunc func(aggregate.Values) float64

// Spec describes a tree: the levels from top to bottom, the aggregations
// computed at every node, and how the displayed value is derived.
type Spec struct {
	Levels []economy.Column
	Aggs   []aggregate.Agg
	Value  ValueFunc
	// Root, when set, adds one synthetic top node aggregating every row
	// (e.g. the country) above the first level.
	Root string
}

// Field returns a ValueFunc reading one aggregated value as is.
func Field(name string) ValueFunc {
	return func(v aggregate.Values) float64 { return v[name] }
}

// Build derives every level from the same table. With an additive Value
// (a plain Sum) each interior node equals the sum of its children.
func Build(ctx context.Context, t *economy.Table, spec Spec) (*Tree, error) {
	tr := &Tree{}
	if t.Len() == 0 {
		return tr, nil
	}
	top := NoParent
	if spec.Root != "" {
		top = tr.add(NoParent, spec.Root, nil, aggregate.Total(t, spec.Aggs...), spec.Value)
	}
	for depth := 1; depth <= len(spec.Levels); depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, row := range aggregate.GroupBy(t, spec.Levels[:depth], spec.Aggs...) {
			parent := top
			for _, label := range row.Keys[:depth-1] {
				parent = tr.child(parent, label)
			}
			tr.add(parent, row.Keys[depth-1], row.Keys, row.Values, spec.Value)
		}
	}
	return tr, nil
}

func (tr *Tree) add(parent int, label string, path []string, values aggregate.Values, value ValueFunc) int {
	id := len(tr.Nodes)
	level := 0
	if parent != NoParent {
		level = tr.Nodes[parent].Level + 1
	}
	tr.Nodes = append(tr.Nodes, Node{
		ID:     id,
		Parent: parent,
		Level:  level,
		Label:  label,
		Path:   slices.Clone(path),
		Value:  value(values),
		Values: values,
	})
	tr.children = append(tr.children, nil)
	tr.index = append(tr.index, map[string]int{})
	if parent == NoParent {
		if tr.top == nil {
			tr.top = map[string]int{}
		}
		tr.top[label] = id
		return id
	}
	tr.children[parent] = append(tr.children[parent], id)
	tr.index[parent][label] = id
	return id
}

// child finds the node labelled label under parent.
func (tr *Tree) child(parent int, label string) int {
	if parent == NoParent {
		if id, ok := tr.top[label]; ok {
			return id
		}
		return NoParent
	}
	if id, ok := tr.index[parent][label]; ok {
		return id
	}
	return NoParent
}

// Len returns the number of nodes.
func (tr *Tree) Len() int { return len(tr.Nodes) }

// Roots returns the ids of the top-level nodes.
func (tr *Tree) Roots() []int {
	var out []int
	for _, n := range tr.Nodes {
		if n.Parent == NoParent {
			out = append(out, n.ID)
		}
	}
	return out
}

// Children returns the ids of the direct children of id.
func (tr *Tree) Children(id int) []int {
	if id < 0 || id >= len(tr.children) {
		return nil
	}
	return slices.Clone(tr.children[id])
}

// Leaves returns the ids of the leaf nodes below id (id itself if it has
// no children).
func (tr *Tree) Leaves(id int) []int {
	kids := tr.Children(id)
	if len(kids) == 0 {
		return []int{id}
	}
	var out []int
	for _, k := range kids {
		out = append(out, tr.Leaves(k)...)
	}
	return out
}

// Find walks labels from the top and returns the node id, or NoParent.
func (tr *Tree) Find(labels ...string) int {
	id := NoParent
	for _, l := range labels {
		id = tr.child(id, l)
		if id == NoParent {
			return NoParent
		}
	}
	return id
}
