package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegion_IsDegenerate(t *testing.T) {
	assert.True(t, Region{}.IsDegenerate())
	assert.True(t, Region{10, 10, 10, 20}.IsDegenerate())
	assert.True(t, Region{10, 10, 20, 5}.IsDegenerate())
	assert.False(t, Region{10, 10, 20, 20}.IsDegenerate())
}

func TestRegion_Union(t *testing.T) {
	a := Region{10, 10, 20, 20}
	b := Region{15, 5, 30, 18}

	assert.Equal(t, Region{10, 5, 30, 20}, a.Union(b))
	assert.Equal(t, a, a.Union(Region{}))
	assert.Equal(t, b, Region{}.Union(b))
}

func TestRegions_LastAndUnion(t *testing.T) {
	rs := Regions{{0, 0, 10, 10}, {0, 20, 50, 30}}

	assert.Equal(t, Region{0, 20, 50, 30}, rs.Last())
	assert.Equal(t, Region{0, 0, 50, 30}, rs.Union())
	assert.Equal(t, Region{}, Regions{}.Last())
	assert.Equal(t, Region{}, Regions{}.Union())
}

func TestRegion_Contains(t *testing.T) {
	r := Region{10, 10, 20, 20}
	assert.True(t, r.Contains(Point{10, 10}))
	assert.False(t, r.Contains(Point{20, 20}))
}
