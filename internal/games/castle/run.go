package castle

import (
	"context"

	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/replay"
)

// InputSource supplies the input for tick i of a headless run.
type InputSource func(g *Game, tick int) core.InputFrame

// Autopilot drives every unlocked paddle.
func Autopilot(g *Game, _ int) core.InputFrame { return g.AutoInput() }

// FromReplay plays back recorded input.
func FromReplay(r *replay.Replay) InputSource {
	return func(_ *Game, tick int) core.InputFrame { return r.Frame(tick) }
}

// RunResult summarises a headless run.
type RunResult struct {
	Ticks int
	Score int
	Wave  int
	Won   bool
	Over  bool
	Shots int
	Hash  uint64
}

// Run steps g up to ticks times without rendering, stopping early when the
// run ends or ctx is cancelled. When rec is non-nil every input is recorded.
func Run(ctx context.Context, g *Game, ticks int, src InputSource, rec *replay.Replay) (RunResult, error) {
	var res RunResult
	for i := 0; i < ticks; i++ {
		if i%600 == 0 {
			if err := ctx.Err(); err != nil {
				return g.result(res.Ticks), err
			}
		}
		in := src(g, i)
		if rec != nil {
			rec.Add(in)
		}
		st := g.Step(in).State
		res.Ticks++
		if st.GameOver {
			break
		}
	}
	res = g.result(res.Ticks)
	if rec != nil {
		rec.Score = res.Score
		rec.Wave = res.Wave
		rec.FinalHash = res.Hash
	}
	return res, nil
}

func (g *Game) result(ticks int) RunResult {
	snap := g.Snapshot()
	return RunResult{
		Ticks: ticks,
		Score: g.score,
		Wave:  g.wave,
		Won:   g.state == StateWin,
		Over:  g.Over(),
		Shots: g.sim.TotalShots(),
		Hash:  snap.Hash(),
	}
}
