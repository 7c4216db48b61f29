package pipeline

import (
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
)

// IsDifferent reports whether current refers to another element than
// previous. If the tree cannot compare both they are considered different.
func IsDifferent(tree accessibility.Tree, previous, current accessibility.Element) bool {
	if previous == nil && current == nil {
		return false
	}
	if previous == nil || current == nil {
		return true
	}
	same, err := tree.Compare(previous, current)
	if err != nil {
		log.WithError(err).
			Debug("Cannot compare elements; assume they are different.")
		return true
	}
	return !same
}
