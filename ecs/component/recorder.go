package component

import "github.com/milk9111/kcc/recording"

type RecorderState int

const (
	RecorderStopped RecorderState = iota
	RecorderRecording
	RecorderSaving
)

func (s RecorderState) String() string {
	switch s {
	case RecorderStopped:
		return "stopped"
	case RecorderRecording:
		return "recording"
	case RecorderSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Recorder collects demos of every character while recording.
type Recorder struct {
	State    RecorderState
	Interval float64
	Elapsed  float64
	Demos    map[uint64]*recording.Demo
	// Order keeps demos in the order their entities were first seen.
	Order []uint64
}

var RecorderComponent = NewComponent[Recorder]()

// Reset drops collected demos and restarts the snapshot timer.
func (r *Recorder) Reset() {
	r.Elapsed = 0
	r.Demos = nil
	r.Order = nil
}
