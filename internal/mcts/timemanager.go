package mcts

import (
	"time"

	"github.com/cpirc/megumax/internal/position"
)

// defaultMovesToGo is used when the UCI "go" command omits movestogo,
// matching the legacy engine's assumption of a 30-move horizon.
const defaultMovesToGo = 30

// safetyMarginMillis is subtracted from end_time when movestogo==1, to
// leave headroom for move overhead. Per spec.md §9, the result is
// clamped to zero rather than left to wrap negative.
const safetyMarginMillis = 50

// PollTimeStop is sampled every 128 nodes (the caller enforces the
// cadence) and sets the stop flag once the computed time budget for
// this move has elapsed. Grounded on
// easychessanimations-zurichess/engine/time_control.go's
// thinkingTime formula, adapted to spec.md §4.9's exact shape: clock
// control (time[side]/inc[side]) takes precedence over movetime when
// a "go" line somehow supplies both.
func (g *Globals) PollTimeStop() {
	p := g.params
	if p.Infinite {
		return
	}

	elapsed := time.Since(g.startTime)

	var t, inc *int
	if g.sideToMove == position.White {
		t, inc = p.WTime, p.WInc
	} else {
		t, inc = p.BTime, p.BInc
	}

	if t != nil && inc != nil {
		movestogo := defaultMovesToGo
		if p.MovesToGo != nil {
			movestogo = *p.MovesToGo
		}
		if movestogo <= 0 {
			movestogo = 1
		}

		endTime := (*t + (movestogo-1)*(*inc)) / movestogo
		if movestogo == 1 {
			endTime -= safetyMarginMillis
			if endTime < 0 {
				endTime = 0
			}
		}

		if elapsed >= time.Duration(endTime)*time.Millisecond {
			g.SetStop()
		}
		return
	}

	if p.MoveTime != nil {
		if elapsed >= time.Duration(*p.MoveTime)*time.Millisecond {
			g.SetStop()
		}
	}
}

// ShouldPollTime reports whether nodes falls on the 128-node sampling
// cadence spec.md §4.9 fixes.
func ShouldPollTime(nodes int32) bool { return nodes&127 == 0 }
