package pipeline

import (
	"strings"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

// Generation identifies one focus epoch. Generations only grow.
type Generation uint64

// Item is one unit which is spoken and highlighted at the same time.
type Item struct {
	Text       string
	Region     screen.Region
	Generation Generation
}

type Items []Item

// Text returns all texts joined by a single space.
func (this Items) Text() string {
	texts := make([]string, len(this))
	for i, v := range this {
		texts[i] = v.Text
	}
	return strings.Join(texts, " ")
}
