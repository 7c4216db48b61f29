// Package mock provides an in-memory accessibility.Tree for tests.
//
// Nodes are plain structs linked by NewTree. Large synthetic trees can be
// generated lazily with Node.Generate, which is only invoked for children the
// traversal actually reaches.
package mock

import (
	"sync"
	"sync/atomic"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
	"github.com/blaubaer/focus-reader/pkg/screen"
)

type Node struct {
	Name      string
	NameErr   error
	Region    screen.Region
	ProcessID uint32

	// Text is only reported if HasText is true, otherwise Text() responds
	// with accessibility.ErrNotSupported.
	Text        string
	HasText     bool
	TextRegions screen.Regions
	TextErr     error

	Children []*Node

	// Generate creates child i of GenerateCount children on demand.
	Generate      func(parent *Node, i int) *Node
	GenerateCount int

	parent    *Node
	index     int
	depth     int
	generated map[int]*Node
}

func NewNode(name string, region screen.Region, children ...*Node) *Node {
	return &Node{Name: name, Region: region, Children: children}
}

func (this *Node) WithText(text string, regions ...screen.Region) *Node {
	this.Text = text
	this.HasText = true
	this.TextRegions = regions
	return this
}

func (this *Node) Parent() *Node {
	return this.parent
}

func (this *Node) Depth() int {
	return this.depth
}

func (this *Node) Index() int {
	return this.index
}

type Tree struct {
	Root *Node
	At   map[screen.Point]*Node

	PointErr   error
	CompareErr error

	// OnElementFromPoint is invoked before every ElementFromPoint resolution.
	OnElementFromPoint func(screen.Point)

	mutex sync.Mutex
	reads []*Node
	refs  atomic.Int64
}

func NewTree(root *Node) *Tree {
	link(root, nil, 0, 0)
	return &Tree{
		Root: root,
		At:   map[screen.Point]*Node{},
	}
}

func link(n, parent *Node, index, depth int) {
	n.parent = parent
	n.index = index
	n.depth = depth
	for i, c := range n.Children {
		link(c, n, i, depth+1)
	}
}

// Place makes the given node resolvable at the given point.
func (this *Tree) Place(p screen.Point, n *Node) *Tree {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.At[p] = n
	return this
}

// Element returns a new reference to the given node.
func (this *Tree) Element(n *Node) accessibility.Element {
	if n == nil {
		return nil
	}
	this.refs.Add(1)
	return &Element{node: n, tree: this}
}

// Outstanding returns the number of references which were handed out but not
// yet released.
func (this *Tree) Outstanding() int64 {
	return this.refs.Load()
}

// Reads returns all nodes which content was read (Text or Name) in order.
func (this *Tree) Reads() []*Node {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	result := make([]*Node, len(this.reads))
	copy(result, this.reads)
	return result
}

func (this *Tree) ElementFromPoint(p screen.Point) (accessibility.Element, error) {
	if v := this.OnElementFromPoint; v != nil {
		v(p)
	}
	if err := this.PointErr; err != nil {
		return nil, err
	}
	this.mutex.Lock()
	n := this.At[p]
	this.mutex.Unlock()
	return this.Element(n), nil
}

func (this *Tree) Compare(a, b accessibility.Element) (bool, error) {
	if err := this.CompareErr; err != nil {
		return false, err
	}
	return nodeOf(a) == nodeOf(b), nil
}

func (this *Tree) Parent(e accessibility.Element) (accessibility.Element, error) {
	return this.Element(nodeOf(e).parent), nil
}

func (this *Tree) FirstChild(e accessibility.Element) (accessibility.Element, error) {
	return this.Element(this.child(nodeOf(e), 0)), nil
}

func (this *Tree) NextSibling(e accessibility.Element) (accessibility.Element, error) {
	n := nodeOf(e)
	if n.parent == nil {
		return nil, nil
	}
	return this.Element(this.child(n.parent, n.index+1)), nil
}

func (this *Tree) PreviousSibling(e accessibility.Element) (accessibility.Element, error) {
	n := nodeOf(e)
	if n.parent == nil || n.index == 0 {
		return nil, nil
	}
	return this.Element(this.child(n.parent, n.index-1)), nil
}

func (this *Tree) child(n *Node, i int) *Node {
	if i < len(n.Children) {
		return n.Children[i]
	}
	if n.Generate == nil || i >= n.GenerateCount {
		return nil
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()
	if n.generated == nil {
		n.generated = map[int]*Node{}
	}
	if c, ok := n.generated[i]; ok {
		return c
	}
	c := n.Generate(n, i)
	if c != nil {
		c.parent = n
		c.index = i
		c.depth = n.depth + 1
	}
	n.generated[i] = c
	return c
}

func (this *Tree) BoundingRegion(e accessibility.Element) (screen.Region, error) {
	return nodeOf(e).Region, nil
}

func (this *Tree) Text(e accessibility.Element) (string, screen.Regions, error) {
	n := nodeOf(e)
	this.read(n)
	if n.TextErr != nil {
		return "", nil, n.TextErr
	}
	if !n.HasText {
		return "", nil, accessibility.ErrNotSupported
	}
	return n.Text, n.TextRegions, nil
}

func (this *Tree) Name(e accessibility.Element) (string, error) {
	n := nodeOf(e)
	if n.NameErr != nil {
		return "", n.NameErr
	}
	return n.Name, nil
}

func (this *Tree) ProcessID(e accessibility.Element) (uint32, error) {
	return nodeOf(e).ProcessID, nil
}

func (this *Tree) read(n *Node) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.reads = append(this.reads, n)
}

type Element struct {
	node *Node
	tree *Tree
}

func (this *Element) Node() *Node {
	return this.node
}

func (this *Element) AddRef() {
	this.tree.refs.Add(1)
}

func (this *Element) Release() {
	this.tree.refs.Add(-1)
}

func nodeOf(e accessibility.Element) *Node {
	if v, ok := e.(*Element); ok && v != nil {
		return v.node
	}
	return nil
}
