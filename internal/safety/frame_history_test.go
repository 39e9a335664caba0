package safety

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameAt(t int64) *FrameObservation {
	frame, _ := NewFrameObservation(fmt.Sprintf("frame-%d", t), t, nil)
	return frame
}

func TestFrameHistory(t *testing.T) {
	t.Parallel()

	t.Run("fills up to capacity", func(t *testing.T) {
		t.Parallel()
		fh := NewFrameHistory(3)
		assert.Equal(t, 0, fh.Size())
		assert.Equal(t, 3, fh.Capacity())

		fh.Add(frameAt(1))
		fh.Add(frameAt(2))
		assert.Equal(t, 2, fh.Size())
	})

	t.Run("evicts oldest first", func(t *testing.T) {
		t.Parallel()
		fh := NewFrameHistory(3)
		for ts := int64(1); ts <= 5; ts++ {
			fh.Add(frameAt(ts))
		}

		assert.Equal(t, 3, fh.Size())
		all := fh.All()
		require.Len(t, all, 3)
		assert.Equal(t, int64(3), all[0].TimestampMillis)
		assert.Equal(t, int64(5), all[2].TimestampMillis)
	})

	t.Run("previous indexes from most recent", func(t *testing.T) {
		t.Parallel()
		fh := NewFrameHistory(4)
		fh.Add(frameAt(10))
		fh.Add(frameAt(20))

		require.NotNil(t, fh.Previous(1))
		assert.Equal(t, int64(20), fh.Previous(1).TimestampMillis)
		assert.Equal(t, int64(10), fh.Previous(2).TimestampMillis)
		assert.Nil(t, fh.Previous(3))
		assert.Nil(t, fh.Previous(0))
	})

	t.Run("clear resets state", func(t *testing.T) {
		t.Parallel()
		fh := NewFrameHistory(2)
		fh.Add(frameAt(1))
		fh.Clear()

		assert.Equal(t, 0, fh.Size())
		assert.Nil(t, fh.All())
		assert.Nil(t, fh.Previous(1))
	})

	t.Run("minimum capacity is one", func(t *testing.T) {
		t.Parallel()
		fh := NewFrameHistory(0)
		fh.Add(frameAt(1))
		fh.Add(frameAt(2))
		assert.Equal(t, 1, fh.Size())
		assert.Equal(t, int64(2), fh.Previous(1).TimestampMillis)
	})
}
