package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, Haversine(BucharestLat, BucharestLng, BucharestLat, BucharestLng))
	})

	t.Run("Bucharest to Cluj-Napoca", func(t *testing.T) {
		d := Haversine(44.4268, 26.1025, 46.7712, 23.6236)
		assert.InDelta(t, 324, d, 5)
	})

	t.Run("Bucharest to Constanța", func(t *testing.T) {
		d := Haversine(44.4268, 26.1025, 44.1598, 28.6348)
		assert.InDelta(t, 202, d, 5)
	})

	t.Run("symmetry", func(t *testing.T) {
		a := Haversine(44.4268, 26.1025, 46.7712, 23.6236)
		b := Haversine(46.7712, 23.6236, 44.4268, 26.1025)
		assert.Equal(t, a, b)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, 0.0, Round2(0.004))
	assert.Equal(t, 12.0, Round2(12))
}
