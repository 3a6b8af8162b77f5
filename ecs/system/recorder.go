package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/ecs/entity"
	"github.com/milk9111/kcc/recording"
	"github.com/rs/zerolog/log"
)

const (
	saveTimeout  = 10 * time.Second
	noticeFrames = 120
)

type saveResult struct {
	demos int
	err   error
}

// RecorderSystem captures demos of every character and hands them to Store
// when saved. Saving runs on its own goroutine; the outcome is reported on a
// later frame.
type RecorderSystem struct {
	Store recording.Store

	wg      sync.WaitGroup
	results chan saveResult
	now     func() time.Time
}

func NewRecorderSystem(store recording.Store) *RecorderSystem {
	return &RecorderSystem{
		Store:   store,
		results: make(chan saveResult, 8),
		now:     time.Now,
	}
}

func (s *RecorderSystem) Update(w *ecs.World) {
	s.report(w)

	e, ok := ecs.First(w, component.RecorderComponent.Kind())
	if !ok {
		return
	}
	rec, _ := ecs.Get(w, e, component.RecorderComponent.Kind())

	var in component.Input
	if _, pin, ok := player(w); ok {
		in = *pin
	}

	switch rec.State {
	case component.RecorderStopped:
		if in.Record {
			rec.Reset()
			rec.State = component.RecorderRecording
			log.Info().Float64("interval", rec.Interval).Msg("recorder: recording")
			entity.Notify(w, "recording", noticeFrames)
		}
	case component.RecorderRecording:
		if in.Save {
			rec.State = component.RecorderSaving
			return
		}
		rec.Elapsed += frameDt(w)
		if rec.Interval > 0 && rec.Elapsed >= rec.Interval {
			for rec.Elapsed >= rec.Interval {
				rec.Elapsed -= rec.Interval
			}
			s.capture(w, rec)
		}
	case component.RecorderSaving:
		demos := make([]recording.Demo, 0, len(rec.Order))
		for _, id := range rec.Order {
			if d := rec.Demos[id]; d != nil && len(d.Snapshots) > 0 {
				demos = append(demos, *d)
			}
		}
		rec.Reset()
		rec.State = component.RecorderStopped
		s.save(demos)
	}
}

func (s *RecorderSystem) capture(w *ecs.World, rec *component.Recorder) {
	if rec.Demos == nil {
		rec.Demos = map[uint64]*recording.Demo{}
	}
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ch *component.Character, tf *component.Transform) {
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			return
		}
		id := uint64(e)
		d, ok := rec.Demos[id]
		if !ok {
			demo := recording.NewDemo(id, rec.Interval)
			demo.RecordedAt = s.now().UTC()
			d = &demo
			rec.Demos[id] = d
			rec.Order = append(rec.Order, id)
		}
		d.Append(recording.Snapshot{
			Velocity: ch.Velocity,
			Position: tf.Translation,
			Rotation: tf.Rotation,
		})
	})
}

func (s *RecorderSystem) save(demos []recording.Demo) {
	if len(demos) == 0 {
		log.Warn().Msg("recorder: nothing recorded")
		return
	}
	if s.Store == nil {
		log.Warn().Int("demos", len(demos)).Msg("recorder: no store configured, dropping demos")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		err := s.Store.Save(ctx, demos...)
		select {
		case s.results <- saveResult{demos: len(demos), err: err}:
		default:
		}
	}()
}

func (s *RecorderSystem) report(w *ecs.World) {
	for {
		select {
		case r := <-s.results:
			if r.err != nil {
				log.Error().Err(r.err).Int("demos", r.demos).Msg("recorder: save failed")
				entity.Notify(w, "saving demos failed", noticeFrames)
				continue
			}
			log.Info().Int("demos", r.demos).Msg("recorder: saved")
			entity.Notify(w, fmt.Sprintf("saved %d demo(s)", r.demos), noticeFrames)
		default:
			return
		}
	}
}

// Wait blocks until every pending save has finished.
func (s *RecorderSystem) Wait() {
	s.wg.Wait()
}
