package screen

import "fmt"

// Region is a rectangle in screen coordinates. The zero Region means
// "unknown" and is never drawn.
type Region struct {
	Left   int32 `json:"left" yaml:"left"`
	Top    int32 `json:"top" yaml:"top"`
	Right  int32 `json:"right" yaml:"right"`
	Bottom int32 `json:"bottom" yaml:"bottom"`
}

func (this Region) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", this.Left, this.Top, this.Right, this.Bottom)
}

func (this Region) Width() int32 {
	return this.Right - this.Left
}

func (this Region) Height() int32 {
	return this.Bottom - this.Top
}

func (this Region) IsZero() bool {
	return this == Region{}
}

// IsDegenerate is true if the region has no area.
func (this Region) IsDegenerate() bool {
	return this.Width() <= 0 || this.Height() <= 0
}

func (this Region) Contains(p Point) bool {
	return p.X >= this.Left && p.X < this.Right && p.Y >= this.Top && p.Y < this.Bottom
}

// Union returns the smallest region containing both. Degenerate regions are
// ignored.
func (this Region) Union(o Region) Region {
	if o.IsDegenerate() {
		return this
	}
	if this.IsDegenerate() {
		return o
	}
	return Region{
		Left:   min(this.Left, o.Left),
		Top:    min(this.Top, o.Top),
		Right:  max(this.Right, o.Right),
		Bottom: max(this.Bottom, o.Bottom),
	}
}

type Regions []Region

func (this Regions) Last() Region {
	if len(this) == 0 {
		return Region{}
	}
	return this[len(this)-1]
}

func (this Regions) Union() (result Region) {
	for _, v := range this {
		result = result.Union(v)
	}
	return
}
