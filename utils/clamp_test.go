package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 40, Clamp(12, 40, 300))
	require.Equal(t, 300, Clamp(999, 40, 300))
	require.Equal(t, 120, Clamp(120, 300, 40))
	require.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
}

func TestFloorMod(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		x, m, expected int
	}{
		{0, 4, 0},
		{5, 4, 1},
		{-1, 4, 3},
		{-4, 4, 0},
		{-5, 4, 3},
	}

	for _, testCase := range testCases {
		require.Equal(t, testCase.expected, FloorMod(testCase.x, testCase.m), "x=%d m=%d", testCase.x, testCase.m)
	}
}

func TestToUnitClamp(t *testing.T) {
	t.Parallel()

	scale := ToUnitClamp(40, 300)
	require.Equal(t, 0.0, scale(10))
	require.Equal(t, 0.5, scale(170))
	require.Equal(t, 1.0, scale(400))

	// reversed ranges count down
	require.Equal(t, 1.0, ToUnitClamp(100, 0)(0))
	require.Equal(t, 0.0, ToUnitClamp(5, 5)(5))
}
