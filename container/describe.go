package container

// Description is a JSON-friendly summary of a container node.
type Description struct {
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Value      any              `json:"value,omitempty"`
	Shape      []int            `json:"shape,omitempty"`
	Size       int              `json:"size,omitempty"`
	Attributes map[string]int64 `json:"attributes,omitempty"`
	Children   []Description    `json:"children,omitempty"`
}

// Describe summarizes g and everything below it. Matrix and blob contents
// are reduced to their shape and size.
func Describe(g *Group) Description {
	return describe(g.path, g.n)
}

func describe(name string, n *node) Description {
	d := Description{Name: name, Kind: n.kind.String()}
	if len(n.attrs) > 0 {
		d.Attributes = make(map[string]int64, len(n.attrs))
		for k, v := range n.attrs {
			d.Attributes[k] = v
		}
	}
	switch n.kind {
	case KindGroup:
		for _, child := range sortedKeys(n.children) {
			d.Children = append(d.Children, describe(child, n.children[child]))
		}
	case KindString:
		d.Value = n.str
	case KindInt:
		d.Value = n.num
	case KindMatrix, KindUintMatrix:
		d.Shape = []int{n.rows, n.cols}
	case KindBytes:
		d.Size = len(n.raw)
	}
	return d
}
