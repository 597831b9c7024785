package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParameterMapCompleteness(t *testing.T) {
	pm := newParameterMap()
	assert.False(t, pm.complete(), "empty map is never complete")

	for i := uint16(0); i < 3; i++ {
		pm.insert("PARAM", i, float32(i), 9, 3)
	}
	assert.True(t, pm.complete())
	assert.Empty(t, pm.missingIndices())
}

func TestParameterMapMissingIndices(t *testing.T) {
	pm := newParameterMap()
	pm.insert("A", 0, 1.0, 9, 3)
	pm.insert("B", 2, 3.0, 9, 3)

	assert.False(t, pm.complete())
	assert.Equal(t, []uint16{1}, pm.missingIndices())
}

func TestParameterMapExpectedCountFixedOnFirstInsert(t *testing.T) {
	pm := newParameterMap()
	pm.insert("A", 0, 1.0, 9, 50)
	pm.insert("A", 0, 1.0, 9, 999) // duplicate insert, different count

	assert.Equal(t, uint16(50), pm.expectedCount, "expected_count must not change after the first insert")
}

func TestParameterMapSnapshotIsDefensiveCopy(t *testing.T) {
	pm := newParameterMap()
	pm.insert("A", 0, 1.0, 9, 1)

	snap := pm.snapshot()
	snap["A"] = Parameter{Name: "A", Value: 999}

	again := pm.snapshot()
	assert.Equal(t, float32(1.0), again["A"].Value)
}
