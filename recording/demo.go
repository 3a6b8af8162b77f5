// Package recording stores character demos: periodic snapshots of a
// character's velocity and pose that can be saved, listed and replayed.
package recording

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
)

var ErrDemoNotFound = errors.New("recording: demo not found")

// Snapshot is one sample of a recorded character.
type Snapshot struct {
	Velocity mgl64.Vec3 `yaml:"velocity"`
	Position mgl64.Vec3 `yaml:"position"`
	Rotation mgl64.Quat `yaml:"rotation"`
}

// Demo is the ordered list of snapshots captured for one entity, sampled
// every FrameTime seconds.
type Demo struct {
	Name       string     `yaml:"name"`
	Entity     uint64     `yaml:"entity"`
	FrameTime  float64    `yaml:"frame_time"`
	RecordedAt time.Time  `yaml:"recorded_at"`
	Snapshots  []Snapshot `yaml:"snapshots"`
}

// DemoName is the storage name of the demo recorded for entity.
func DemoName(entity uint64) string {
	return "demo_" + strconv.FormatUint(entity, 10)
}

func NewDemo(entity uint64, frameTime float64) Demo {
	return Demo{
		Name:      DemoName(entity),
		Entity:    entity,
		FrameTime: frameTime,
	}
}

func (d *Demo) Append(s Snapshot) {
	d.Snapshots = append(d.Snapshots, s)
}

// Duration is the time between the first and last snapshot.
func (d Demo) Duration() float64 {
	if len(d.Snapshots) < 2 || d.FrameTime <= 0 {
		return 0
	}
	return d.FrameTime * float64(len(d.Snapshots)-1)
}

// Sample interpolates the snapshot at t seconds, clamped to the demo.
func (d Demo) Sample(t float64) (Snapshot, bool) {
	n := len(d.Snapshots)
	if n == 0 {
		return Snapshot{}, false
	}
	if n == 1 || d.FrameTime <= 0 || t <= 0 {
		return d.Snapshots[0], true
	}
	if t >= d.Duration() {
		return d.Snapshots[n-1], true
	}

	pos := t / d.FrameTime
	i := int(math.Floor(pos))
	if i >= n-1 {
		return d.Snapshots[n-1], true
	}
	frac := pos - float64(i)
	a, b := d.Snapshots[i], d.Snapshots[i+1]
	return Snapshot{
		Velocity: common.LerpVec3(a.Velocity, b.Velocity, frac),
		Position: common.LerpVec3(a.Position, b.Position, frac),
		Rotation: mgl64.QuatSlerp(common.OrIdentity(a.Rotation), common.OrIdentity(b.Rotation), frac),
	}, true
}

// Store persists demos. Save replaces demos that share a name.
type Store interface {
	Save(ctx context.Context, demos ...Demo) error
	Load(ctx context.Context, name string) (Demo, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}
