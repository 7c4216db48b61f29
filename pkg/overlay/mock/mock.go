// Package mock provides a recording overlay.Surface for tests.
package mock

import (
	"sync"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

type Operation struct {
	Draw   bool
	Region screen.Region
}

// Surface records every call and tracks how many rectangles are visible at
// the same time.
type Surface struct {
	DrawErr       error
	InvalidateErr error

	mutex      sync.Mutex
	operations []Operation
	visible    map[screen.Region]int
	maxVisible int
}

func (this *Surface) DrawRect(region screen.Region) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.operations = append(this.operations, Operation{true, region})
	if this.DrawErr != nil {
		return this.DrawErr
	}
	if this.visible == nil {
		this.visible = map[screen.Region]int{}
	}
	this.visible[region]++
	if n := this.countVisible(); n > this.maxVisible {
		this.maxVisible = n
	}
	return nil
}

func (this *Surface) InvalidateRect(region screen.Region) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.operations = append(this.operations, Operation{false, region})
	if this.InvalidateErr != nil {
		return this.InvalidateErr
	}
	delete(this.visible, region)
	return nil
}

func (this *Surface) countVisible() (result int) {
	for _, n := range this.visible {
		result += n
	}
	return
}

func (this *Surface) Operations() []Operation {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	result := make([]Operation, len(this.operations))
	copy(result, this.operations)
	return result
}

// Drawn returns every region which was drawn, in order.
func (this *Surface) Drawn() (result []screen.Region) {
	for _, op := range this.Operations() {
		if op.Draw {
			result = append(result, op.Region)
		}
	}
	return
}

func (this *Surface) Visible() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.countVisible()
}

// MaxVisible is the highest number of rectangles ever visible at once.
func (this *Surface) MaxVisible() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.maxVisible
}
