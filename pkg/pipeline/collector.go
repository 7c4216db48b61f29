package pipeline

import (
	"errors"
	"strings"
	"unicode/utf8"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
	"github.com/blaubaer/focus-reader/pkg/screen"
)

// Collector reads the texts of an element and its descendants.
type Collector struct {
	tree       accessibility.Tree
	controller *Controller
	conf       TraversalConfiguration
}

func NewCollector(tree accessibility.Tree, controller *Controller, conf TraversalConfiguration) *Collector {
	return &Collector{
		tree:       tree,
		controller: controller,
		conf:       conf,
	}
}

type collectorNode struct {
	element accessibility.Element
	depth   int
	owned   bool
}

func (this collectorNode) release() {
	if this.owned && this.element != nil {
		this.element.Release()
	}
}

type collection struct {
	token      Token
	queue      []collectorNode
	seen       map[string]struct{}
	items      Items
	visited    int
	textLength int
}

func (this *collection) isStale(controller *Controller) bool {
	return this.token.Err() != nil || !controller.IsCurrent(this.token.Generation())
}

// Collect traverses root breadth first and returns one Item for each
// distinct text found. It returns ErrSuperseded and no items at all if the
// token's generation is superseded meanwhile. root stays owned by the caller.
func (this *Collector) Collect(token Token, root accessibility.Element) (Items, error) {
	if root == nil {
		return nil, nil
	}

	c := &collection{
		token: token,
		queue: []collectorNode{{element: root}},
		seen:  map[string]struct{}{},
	}
	defer func() {
		for _, n := range c.queue {
			n.release()
		}
	}()

	for len(c.queue) > 0 {
		current := c.queue[0]
		c.queue = c.queue[1:]
		proceed, err := this.visit(c, current)
		if err != nil {
			return nil, err
		}
		if !proceed {
			break
		}
	}

	if c.isStale(this.controller) {
		return nil, ErrSuperseded
	}
	return c.items, nil
}

func (this *Collector) visit(c *collection, n collectorNode) (proceed bool, err error) {
	defer n.release()

	if c.isStale(this.controller) {
		return false, ErrSuperseded
	}
	if n.depth >= this.conf.MaxDepth {
		return true, nil
	}
	if c.visited >= this.conf.MaxElements {
		log.With("generation", c.token.Generation()).
			With("maxElements", this.conf.MaxElements).
			Debug("Maximum number of elements reached; stop reading.")
		return false, nil
	}
	c.visited++

	if text, region, ok := this.read(n.element, c.seen); ok {
		length := utf8.RuneCountInString(text)
		if c.textLength+length > this.conf.MaxTextLength {
			log.With("generation", c.token.Generation()).
				With("maxTextLength", this.conf.MaxTextLength).
				Debug("Maximum text length reached; stop reading.")
			return false, nil
		}
		if c.isStale(this.controller) {
			return false, ErrSuperseded
		}
		c.seen[text] = struct{}{}
		c.textLength += length
		c.items = append(c.items, Item{
			Text:       text,
			Region:     region,
			Generation: c.token.Generation(),
		})
	}

	if n.depth+1 < this.conf.MaxDepth {
		this.enqueueChildren(c, n)
	}
	return true, nil
}

func (this *Collector) enqueueChildren(c *collection, n collectorNode) {
	child, err := this.tree.FirstChild(n.element)
	for i := 0; child != nil && err == nil; i++ {
		if i >= this.conf.MaxChildren || c.visited+len(c.queue) >= this.conf.MaxElements {
			child.Release()
			return
		}
		c.queue = append(c.queue, collectorNode{element: child, depth: n.depth + 1, owned: true})
		child, err = this.tree.NextSibling(child)
	}
	if err != nil {
		log.WithError(err).
			With("generation", c.token.Generation()).
			Debug("Cannot enumerate children; continue with the elements already known.")
	}
}

func (this *Collector) read(e accessibility.Element, seen map[string]struct{}) (string, screen.Region, bool) {
	isNew := func(v string) bool {
		if v == "" {
			return false
		}
		_, ok := seen[v]
		return !ok
	}

	text, regions, err := this.tree.Text(e)
	if err != nil && !errors.Is(err, accessibility.ErrNotSupported) {
		log.WithError(err).
			Debug("Cannot read text of element; try its name.")
	}
	if text = strings.TrimSpace(text); err == nil && isNew(text) {
		return text, this.regionOf(regions), true
	}

	name, err := this.tree.Name(e)
	if err != nil {
		log.WithError(err).
			Debug("Cannot read name of element.")
		return "", screen.Region{}, false
	}
	if name = strings.TrimSpace(name); !isNew(name) {
		return "", screen.Region{}, false
	}
	region, err := this.tree.BoundingRegion(e)
	if err != nil {
		log.WithError(err).
			Debug("Cannot read bounding region of element; it will not be highlighted.")
		region = screen.Region{}
	}
	return name, region, true
}

func (this *Collector) regionOf(regions screen.Regions) screen.Region {
	if this.conf.TextRegion == TextRegionUnion {
		return regions.Union()
	}
	return regions.Last()
}
