package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/ecs/entity"
	"github.com/milk9111/kcc/prefabs"
	"github.com/rs/zerolog/log"
)

// ChangeSource reports prefab files that changed on disk.
type ChangeSource interface {
	Poll() []string
}

// HotReloadSystem turns file changes into reload requests and applies them
// to live entities: character tuning, camera rig settings and platform
// scripts.
type HotReloadSystem struct {
	Source  ChangeSource
	Scripts *PlatformScriptSystem
	Physics *PhysicsSyncSystem
}

func NewHotReloadSystem(source ChangeSource, scripts *PlatformScriptSystem, physics *PhysicsSyncSystem) *HotReloadSystem {
	return &HotReloadSystem{Source: source, Scripts: scripts, Physics: physics}
}

func (s *HotReloadSystem) Update(w *ecs.World) {
	if s.Source != nil {
		for _, path := range s.Source.Poll() {
			e := ecs.CreateEntity(w)
			_ = ecs.Add(w, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{Path: path})
		}
	}

	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, req *component.ReloadRequest) {
		defer ecs.DestroyEntity(w, e)

		name := prefabs.Relative(req.Path)
		if err := s.reload(w, name); err != nil {
			log.Error().Err(err).Str("path", req.Path).Msg("hot reload")
			entity.Notify(w, "reload failed: "+name, noticeFrames)
			return
		}
		log.Info().Str("path", name).Msg("hot reload: applied")
		entity.Notify(w, "reloaded "+name, noticeFrames)
	})
}

func (s *HotReloadSystem) reload(w *ecs.World, name string) error {
	if prefabs.IsScript(name) {
		if s.Scripts == nil {
			return fmt.Errorf("no platform script system")
		}
		s.Scripts.Invalidate(name)
		return nil
	}

	spec, err := prefabs.LoadEntityBuildSpec(name)
	if err != nil {
		return err
	}
	applied := false
	if raw, ok := spec.Components["character"]; ok {
		if err := s.reloadCharacters(w, raw); err != nil {
			return err
		}
		applied = true
	}
	if raw, ok := spec.Components["camera_rig"]; ok {
		if err := reloadCameraRig(w, raw); err != nil {
			return err
		}
		applied = true
	}
	if !applied {
		return fmt.Errorf("%s has no reloadable components", name)
	}
	return nil
}

func (s *HotReloadSystem) reloadCharacters(w *ecs.World, raw any) error {
	tuningSpec, err := prefabs.DecodeComponentSpec(raw, prefabs.DefaultTuningSpec())
	if err != nil {
		return err
	}
	tuning, err := tuningSpec.Tuning()
	if err != nil {
		return err
	}

	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.PlayerTagComponent.Kind(), func(e ecs.Entity, ch *component.Character, _ *component.PlayerTag) {
		resize := ch.Tuning.Radius != tuning.Radius || ch.Tuning.CapsuleLength != tuning.CapsuleLength
		ch.Tuning = tuning
		ch.Config = tuningSpec.MoveAndSlide
		if !resize {
			return
		}
		if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
			if s.Physics != nil {
				s.Physics.Forget(w, e)
			}
			col.Shape = tuning.Shape()
		}
	})
	return nil
}

func reloadCameraRig(w *ecs.World, raw any) error {
	spec, err := prefabs.DecodeComponentSpec(raw, prefabs.DefaultCameraRigSpec())
	if err != nil {
		return err
	}
	if spec.MinDistance <= 0 || spec.MaxDistance < spec.MinDistance {
		return fmt.Errorf("camera_rig: invalid distance range [%v, %v]", spec.MinDistance, spec.MaxDistance)
	}
	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(e ecs.Entity, rig *component.CameraRig) {
		rig.Sensitivity = spec.Sensitivity
		rig.Offset = spec.Offset.Vec()
		rig.RelativeOffset = spec.RelativeOffset.Vec()
		rig.MinDistance = spec.MinDistance
		rig.MaxDistance = spec.MaxDistance
		rig.TargetDistance = mgl64.Clamp(spec.Distance, spec.MinDistance, spec.MaxDistance)
		rig.ZoomStep = spec.ZoomStep
		rig.RecoverSpeed = spec.RecoverSpeed
		rig.ProbeRadius = spec.ProbeRadius
		rig.FlySpeed = spec.FlySpeed
	})
	return nil
}
