package mcts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cpirc/megumax/internal/position"
)

func intp(v int) *int { return &v }

func TestPollTimeStopClampsToZeroWhenMovesToGoIsOne(t *testing.T) {
	g := NewGlobals()
	zero := 0
	g.Reset(position.White, GoParams{
		WTime:     &zero,
		WInc:      &zero,
		MovesToGo: intp(1),
	})
	// A budget of 0ms minus the safety margin would go negative without
	// the clamp; back-date startTime so elapsed is certainly >= 0.
	g.startTime = time.Now().Add(-time.Hour)

	g.PollTimeStop()
	assert.True(t, g.Stop())
}

func TestPollTimeStopHonorsBudgetNotYetElapsed(t *testing.T) {
	g := NewGlobals()
	g.Reset(position.White, GoParams{
		WTime: intp(1_000_000),
		WInc:  intp(0),
	})

	g.PollTimeStop()
	assert.False(t, g.Stop())
}

func TestPollTimeStopMoveTimeExceeded(t *testing.T) {
	g := NewGlobals()
	g.Reset(position.White, GoParams{MoveTime: intp(10)})
	g.startTime = time.Now().Add(-time.Second)

	g.PollTimeStop()
	assert.True(t, g.Stop())
}

func TestPollTimeStopInfiniteNeverStops(t *testing.T) {
	g := NewGlobals()
	g.Reset(position.White, GoParams{Infinite: true})
	g.startTime = time.Now().Add(-24 * time.Hour)

	g.PollTimeStop()
	assert.False(t, g.Stop())
}

func TestShouldPollTimeCadence(t *testing.T) {
	assert.True(t, ShouldPollTime(0))
	assert.True(t, ShouldPollTime(128))
	assert.False(t, ShouldPollTime(1))
	assert.False(t, ShouldPollTime(127))
}
