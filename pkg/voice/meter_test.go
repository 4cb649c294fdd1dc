package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		name string
		bins []byte
		want int
	}{
		{name: "empty", bins: nil, want: 0},
		{name: "silence", bins: []byte{0, 0, 0, 0}, want: 0},
		{name: "quarter", bins: []byte{32, 32, 32, 32}, want: 37},
		{name: "half", bins: []byte{64, 64}, want: 75},
		{name: "clamped", bins: []byte{128, 200, 255}, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeLevel(tc.bins))
		})
	}
}

func TestLevelMeter(t *testing.T) {
	source := &fakeLevel{}
	var levels []int
	m := NewLevelMeter(source, func(level int) { levels = append(levels, level) })

	source.frame([]byte{64, 64})
	require.Empty(t, levels)

	require.NoError(t, m.Start())
	require.NoError(t, m.Start())
	require.Equal(t, int32(1), source.opened.Load())
	require.True(t, m.Active())

	source.frame([]byte{64, 64})
	require.Equal(t, 75, m.Level())

	m.Stop()
	m.Stop()
	require.Equal(t, int32(1), source.closed.Load())
	require.False(t, m.Active())
	require.Zero(t, m.Level())
	require.Equal(t, []int{75, 0}, levels)

	source.frame([]byte{255})
	require.Equal(t, []int{75, 0}, levels)
}

func TestLevelMeterUnsupported(t *testing.T) {
	m := NewLevelMeter(nil, nil)
	require.ErrorIs(t, m.Start(), ErrRecognitionUnsupported)
	m.Stop()
	require.False(t, m.Active())
}
