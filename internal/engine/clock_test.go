package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_SequenceFromZero(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())

	got := []int64{c.Next(), c.Next(), c.Next()}
	assert.Equal(t, []int64{1, 2, 3}, got)
	assert.Equal(t, int64(3), c.Current(), "Current reads without advancing")
}

func TestClock_ResumesAfterLastJournalSeq(t *testing.T) {
	tests := []struct {
		name string
		last int64
		want int64
	}{
		{"empty journal", 0, 1},
		{"one entry", 1, 2},
		{"long journal", 4096, 4097},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClockAt(tt.last)
			assert.Equal(t, tt.last, c.Current())
			assert.Equal(t, tt.want, c.Next())
		})
	}
}

func TestClock_ConcurrentNextNeverRepeats(t *testing.T) {
	c := NewClock()
	const workers, perWorker = 8, 250

	done := make(chan []int64, workers)
	for _i := 0; _i < workers; _i++ {
		go func() {
			seqs := make([]int64, perWorker)
			for i := range seqs {
				seqs[i] = c.Next()
			}
			done <- seqs
		}()
	}

	seen := make(map[int64]bool, workers*perWorker)
	for _i := 0; _i < workers; _i++ {
		for _, seq := range <-done {
			assert.False(t, seen[seq], "seq %d issued twice", seq)
			seen[seq] = true
		}
	}
	assert.Equal(t, int64(workers*perWorker), c.Current())
}

func TestSystemTime_Millis(t *testing.T) {
	before := time.Now().UnixMilli()
	got := SystemTime{}.NowMillis()
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}
