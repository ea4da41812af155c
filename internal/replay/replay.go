// Package replay records the input stream of a run so it can be replayed
// and checked against the final snapshot hash.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/videobydak/castle-pong/internal/core"
)

// Version is bumped whenever the encoding or the simulation changes in a
// way that breaks old recordings.
const Version = 1

// ErrVersion is returned when a file was written by another format version.
var ErrVersion = errors.New("replay: unsupported version")

// Replay is one recorded run. Each tick's input is a bitmask of actions.
type Replay struct {
	Version   int      `msgpack:"v"`
	ID        string   `msgpack:"id"`
	Game      string   `msgpack:"game"`
	Seed      int64    `msgpack:"seed"`
	TickRate  int      `msgpack:"tick_rate"`
	Inputs    []uint32 `msgpack:"inputs"`
	Score     int      `msgpack:"score"`
	Wave      int      `msgpack:"wave"`
	FinalHash uint64   `msgpack:"hash"`
}

// New starts an empty recording.
func New(id, game string, seed int64, tickRate int) *Replay {
	return &Replay{Version: Version, ID: id, Game: game, Seed: seed, TickRate: tickRate}
}

// Add appends one tick of input.
func (r *Replay) Add(in core.InputFrame) {
	r.Inputs = append(r.Inputs, Pack(in))
}

// Ticks returns the number of recorded ticks.
func (r *Replay) Ticks() int { return len(r.Inputs) }

// Frame rebuilds the input of tick i.
func (r *Replay) Frame(i int) core.InputFrame {
	if i < 0 || i >= len(r.Inputs) {
		return core.NewInputFrame()
	}
	return Unpack(r.Inputs[i])
}

// Pack folds an input frame into a bitmask.
func Pack(in core.InputFrame) uint32 {
	var mask uint32
	for a, on := range in.Actions {
		if on && a > core.ActionNone && a < 32 {
			mask |= 1 << uint(a)
		}
	}
	return mask
}

// Unpack expands a bitmask into an input frame.
func Unpack(mask uint32) core.InputFrame {
	in := core.NewInputFrame()
	for a := core.Action(1); a < 32; a++ {
		if mask&(1<<uint(a)) != 0 {
			in.Set(a)
		}
	}
	return in
}

// Encode writes r as msgpack.
func (r *Replay) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a replay and rejects other format versions.
func Decode(rd io.Reader) (*Replay, error) {
	var r Replay
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return &r, nil
}

// Save writes r to path.
func (r *Replay) Save(path string) error {
	f, err := os.Create(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("replay: create %s: %w", path, err)
	}
	if err := r.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("replay: close %s: %w", path, err)
	}
	return nil
}

// Load reads a replay from path.
func Load(path string) (*Replay, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
