package component

import "github.com/milk9111/kcc/recording"

// Playback replays a demo onto a ghost entity.
type Playback struct {
	Demo recording.Demo
	Time float64
	Loop bool
	Done bool
}

var PlaybackComponent = NewComponent[Playback]()
