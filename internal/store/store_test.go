package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceMintsZeroPaddedIDs(t *testing.T) {
	seq := NewSequence("QTN", 1000)
	assert.Equal(t, "QTN-001001", seq.Next())
	assert.Equal(t, "QTN-001002", seq.Next())

	seq = NewSequence("BKNG", 0)
	assert.Equal(t, "BKNG-000001", seq.Next())
}

func TestLatencyZeroDoesNotBlock(t *testing.T) {
	start := time.Now()
	require.NoError(t, Latency(0).Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestLatencyHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Latency(time.Minute).Wait(ctx), context.Canceled)
}
