package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInSignedUnit(t *testing.T) {
	for _, x := range []float64{-1, -0.5, 0, 0.99, 1} {
		assert.True(t, InSignedUnit(x), x)
	}
	for _, x := range []float64{-1.01, 1.5, math.NaN(), math.Inf(1)} {
		assert.False(t, InSignedUnit(x), x)
	}
}

func TestPtr(t *testing.T) {
	v := 0.4
	p := Ptr(v)
	v = 0.9
	assert.Equal(t, 0.4, *p)
}
