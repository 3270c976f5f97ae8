// Package view renders the planner as a tree of nodes and binds user actions
// to the domain model. Rendering is pure; the controllers own the lifecycle.
package view

// Node is one element of a rendered tree.
type Node struct {
	Tag      string
	Classes  []string
	Attrs    map[string]string
	Text     string
	Children []*Node

	parent *Node
}

// El creates an element with the given classes.
func El(tag string, classes ...string) *Node {
	return &Node{Tag: tag, Classes: classes, Attrs: map[string]string{}}
}

// SetAttr sets an attribute and returns n for chaining.
func (n *Node) SetAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	return n
}

// SetText sets the text content and returns n for chaining.
func (n *Node) SetText(text string) *Node {
	n.Text = text
	return n
}

// AddClass appends a class unless it is already present.
func (n *Node) AddClass(class string) *Node {
	if !n.HasClass(class) {
		n.Classes = append(n.Classes, class)
	}
	return n
}

// Append adds children and returns n for chaining.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Attr returns the attribute value, or "" when unset.
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// HasClass reports whether n carries class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Parent returns the node n is attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Attached reports whether n currently has a parent.
func (n *Node) Attached() bool {
	return n.parent != nil
}

// AppendChild attaches c as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(c *Node) {
	if c == nil {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.Children = append(n.Children, c)
}

// RemoveChild detaches c from n. It reports false when c is not a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// ReplaceChildren detaches every current child and attaches children instead.
func (n *Node) ReplaceChildren(children ...*Node) {
	for _, c := range n.Children {
		c.parent = nil
	}
	n.Children = nil
	n.Append(children...)
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceWith puts other in n's position and detaches n. When n is not
// attached, nothing happens and false is returned.
func (n *Node) ReplaceWith(other *Node) bool {
	p := n.parent
	if p == nil || other == n {
		return false
	}
	if other.parent != nil {
		other.parent.RemoveChild(other)
	}
	for i, child := range p.Children {
		if child == n {
			p.Children[i] = other
			other.parent = p
			n.parent = nil
			return true
		}
	}
	return false
}

// Find returns the first node in depth-first order, n included, that
// matches pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every matching node in depth-first order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(m *Node) {
		if pred(m) {
			out = append(out, m)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// ByAttr matches nodes whose attribute key equals value.
func ByAttr(key, value string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Attrs[key]
		return ok && v == value
	}
}

// ByClass matches nodes carrying class.
func ByClass(class string) func(*Node) bool {
	return func(n *Node) bool {
		return n.HasClass(class)
	}
}

// ByTag matches nodes with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Tag == tag
	}
}
