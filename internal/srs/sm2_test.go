package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeNextReview_PassProgression(t *testing.T) {
	t.Parallel()

	// 固定quality=4连续通过：间隔应为 1, 6, 15，难度系数保持2.5
	interval, repetitions, ease := InitialInterval, 0, InitialEaseFactor

	r1 := ComputeNextReview(interval, repetitions, ease, 4)
	assert.Equal(t, 1, r1.Repetitions)
	assert.Equal(t, 1, r1.Interval)
	assert.InDelta(t, 2.5, r1.EaseFactor, 0.001)

	r2 := ComputeNextReview(r1.Interval, r1.Repetitions, r1.EaseFactor, 4)
	assert.Equal(t, 2, r2.Repetitions)
	assert.Equal(t, 6, r2.Interval)

	r3 := ComputeNextReview(r2.Interval, r2.Repetitions, r2.EaseFactor, 4)
	assert.Equal(t, 3, r3.Repetitions)
	assert.Equal(t, 15, r3.Interval)
}

func TestComputeNextReview_FailResets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		interval    int
		repetitions int
		ease        float64
		quality     int
	}{
		{name: "incorrect after long streak", interval: 15, repetitions: 3, ease: 2.5, quality: 2},
		{name: "blackout", interval: 120, repetitions: 8, ease: 1.8, quality: 0},
		{name: "barely failing", interval: 6, repetitions: 2, ease: 2.36, quality: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ComputeNextReview(tt.interval, tt.repetitions, tt.ease, tt.quality)
			assert.Equal(t, 0, r.Repetitions)
			assert.Equal(t, 1, r.Interval)
			// 失败不调整难度系数
			assert.InDelta(t, tt.ease, r.EaseFactor, 0.001)
		})
	}
}

func TestComputeNextReview_EaseFactorAdjustment(t *testing.T) {
	t.Parallel()

	// quality=5 提升，quality=3 降低，quality=4 不变
	perfect := ComputeNextReview(1, 0, 2.5, 5)
	assert.InDelta(t, 2.6, perfect.EaseFactor, 0.001)

	hesitant := ComputeNextReview(1, 0, 2.5, 4)
	assert.InDelta(t, 2.5, hesitant.EaseFactor, 0.001)

	difficult := ComputeNextReview(1, 0, 2.5, 3)
	assert.InDelta(t, 2.36, difficult.EaseFactor, 0.001)
}

func TestComputeNextReview_EaseFactorFloor(t *testing.T) {
	t.Parallel()

	for quality := 0; quality <= 5; quality++ {
		for _, ease := range []float64{1.3, 1.31, 1.5, 2.5, 3.0} {
			r := ComputeNextReview(10, 4, ease, quality)
			assert.GreaterOrEqual(t, r.EaseFactor, MinEaseFactor,
				"quality=%d ease=%v", quality, ease)
		}
	}
}

func TestComputeNextReview_UnboundedGrowth(t *testing.T) {
	t.Parallel()

	// 间隔增长无上限
	r := ComputeNextReview(365, 10, 2.5, 5)
	assert.Greater(t, r.Interval, 365)
}

func TestComputeNextReview_ClampsQuality(t *testing.T) {
	t.Parallel()

	below := ComputeNextReview(15, 3, 2.5, -2)
	assert.Equal(t, 0, below.Repetitions)
	assert.Equal(t, 1, below.Interval)

	above := ComputeNextReview(1, 0, 2.5, 9)
	assert.Equal(t, 1, above.Repetitions)
	assert.InDelta(t, 2.6, above.EaseFactor, 0.001)
}

func TestComputeNextReview_NextReviewDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	r := computeNextReviewAt(6, 2, 2.5, 4, now)
	require.Equal(t, 15, r.Interval)
	assert.Equal(t, now.AddDate(0, 0, 15), r.NextReview)

	failed := computeNextReviewAt(15, 3, 2.5, 2, now)
	assert.Equal(t, now.AddDate(0, 0, 1), failed.NextReview)
}
