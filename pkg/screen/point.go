package screen

import "fmt"

type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

func (this Point) String() string {
	return fmt.Sprintf("(%d, %d)", this.X, this.Y)
}

func (this Point) Equal(o Point) bool {
	return this.X == o.X && this.Y == o.Y
}
