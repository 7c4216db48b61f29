package pipeline

import (
	"fmt"
	"strings"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

type Source uint8

const (
	SourcePointer    = Source(0)
	SourceNavigation = Source(1)
)

func (this *Source) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "pointer", "mouse":
		*this = SourcePointer
		return nil
	case "navigation", "keyboard":
		*this = SourceNavigation
		return nil
	default:
		return fmt.Errorf("illegal-source: %s", plain)
	}
}

func (this Source) String() string {
	switch this {
	case SourcePointer:
		return "pointer"
	case SourceNavigation:
		return "navigation"
	default:
		return fmt.Sprintf("illegal-source-%d", this)
	}
}

type Navigation uint8

const (
	NavigationParent          = Navigation(0)
	NavigationFirstChild      = Navigation(1)
	NavigationNextSibling     = Navigation(2)
	NavigationPreviousSibling = Navigation(3)
	NavigationRedo            = Navigation(4)
)

var (
	AllNavigations = Navigations{
		NavigationParent,
		NavigationFirstChild,
		NavigationNextSibling,
		NavigationPreviousSibling,
		NavigationRedo,
	}
)

func (this *Navigation) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "parent", "up":
		*this = NavigationParent
		return nil
	case "firstchild", "child", "down":
		*this = NavigationFirstChild
		return nil
	case "nextsibling", "next", "right":
		*this = NavigationNextSibling
		return nil
	case "previoussibling", "previous", "prev", "left":
		*this = NavigationPreviousSibling
		return nil
	case "redo", "repeat":
		*this = NavigationRedo
		return nil
	default:
		return fmt.Errorf("illegal-navigation: %s", plain)
	}
}

func (this Navigation) String() string {
	switch this {
	case NavigationParent:
		return "parent"
	case NavigationFirstChild:
		return "firstChild"
	case NavigationNextSibling:
		return "nextSibling"
	case NavigationPreviousSibling:
		return "previousSibling"
	case NavigationRedo:
		return "redo"
	default:
		return fmt.Sprintf("illegal-navigation-%d", this)
	}
}

type Navigations []Navigation

func (this Navigations) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Navigations) String() string {
	return strings.Join(this.Strings(), ",")
}

// Candidate is a raw signal that the focus might have changed. Point is only
// respected for SourcePointer, Navigation only for SourceNavigation.
type Candidate struct {
	Source     Source
	Point      screen.Point
	Navigation Navigation
}

func PointerCandidate(p screen.Point) Candidate {
	return Candidate{Source: SourcePointer, Point: p}
}

func NavigationCandidate(n Navigation) Candidate {
	return Candidate{Source: SourceNavigation, Navigation: n}
}

func (this Candidate) String() string {
	if this.Source == SourceNavigation {
		return fmt.Sprintf("%v:%v", this.Source, this.Navigation)
	}
	return fmt.Sprintf("%v:%v", this.Source, this.Point)
}
