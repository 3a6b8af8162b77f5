package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/kcc"
	"github.com/milk9111/kcc/physics"
	"github.com/milk9111/kcc/prefabs"
	"github.com/rs/zerolog/log"
)

type platformScript struct {
	path     string
	compiled *tengo.Compiled
	failed   bool
}

// PlatformScriptSystem moves scripted platforms. Each script reads `t` (the
// platform's elapsed time) and `params`, and sets `offset` (an array of three
// numbers) and optionally `yaw` in radians.
type PlatformScriptSystem struct {
	cache map[ecs.Entity]*platformScript
}

func NewPlatformScriptSystem() *PlatformScriptSystem {
	return &PlatformScriptSystem{cache: map[ecs.Entity]*platformScript{}}
}

// Invalidate drops every compiled copy of the script at path so the next
// step recompiles it.
func (s *PlatformScriptSystem) Invalidate(path string) int {
	n := 0
	for e, rt := range s.cache {
		if rt.path == path || prefabs.SameScript(rt.path, path) {
			delete(s.cache, e)
			n++
		}
	}
	return n
}

func (s *PlatformScriptSystem) Update(w *ecs.World) {
	dt := fixedDt(w)

	for e := range s.cache {
		if !ecs.Has(w, e, component.PlatformComponent.Kind()) {
			delete(s.cache, e)
		}
	}

	ecs.ForEach2(w, component.PlatformComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Platform, tf *component.Transform) {
		if prev, ok := ecs.Get(w, e, component.PreviousTransformComponent.Kind()); ok {
			*prev = component.PreviousTransform(*tf)
		}
		if p.Script == "" {
			return
		}

		rt, err := s.runtime(e, p.Script)
		if err != nil {
			log.Error().Err(err).Stringer("entity", e).Str("script", p.Script).Msg("platform: load script")
			return
		}
		if rt.failed {
			return
		}

		p.Time += dt
		offset, yaw, err := rt.eval(p.Time, p.Params)
		if err != nil {
			rt.failed = true
			log.Error().Err(err).Stringer("entity", e).Str("script", p.Script).Msg("platform: run script")
			return
		}
		tf.Translation = p.Origin.Add(offset)
		tf.Rotation = common.YawRotation(yaw).Mul(common.OrIdentity(p.Rotation))
	})
}

func (s *PlatformScriptSystem) runtime(e ecs.Entity, path string) (*platformScript, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}

	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}
	script := tengo.NewScript(src)
	_ = script.Add("t", 0.0)
	_ = script.Add("params", map[string]interface{}{})
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	rt := &platformScript{path: path, compiled: compiled}
	s.cache[e] = rt
	return rt, nil
}

func (rt *platformScript) eval(t float64, params map[string]float64) (mgl64.Vec3, float64, error) {
	args := make(map[string]interface{}, len(params))
	for k, v := range params {
		args[k] = v
	}
	if err := rt.compiled.Set("t", t); err != nil {
		return mgl64.Vec3{}, 0, err
	}
	if err := rt.compiled.Set("params", args); err != nil {
		return mgl64.Vec3{}, 0, err
	}
	if err := rt.compiled.Run(); err != nil {
		return mgl64.Vec3{}, 0, err
	}

	var offset mgl64.Vec3
	v := rt.compiled.Get("offset")
	if !v.IsUndefined() {
		arr := v.Array()
		if len(arr) != 3 {
			return mgl64.Vec3{}, 0, fmt.Errorf("offset must have 3 elements, got %d", len(arr))
		}
		for i, x := range arr {
			f, ok := toFloat(x)
			if !ok {
				return mgl64.Vec3{}, 0, fmt.Errorf("offset[%d] is %T, not a number", i, x)
			}
			offset[i] = f
		}
	}

	yaw := 0.0
	if y := rt.compiled.Get("yaw"); !y.IsUndefined() {
		yaw = y.Float()
	}
	return offset, yaw, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// PlatformFollowSystem carries grounded characters along with the collider
// they stand on, using the collider entity's previous and current transform.
type PlatformFollowSystem struct{}

func NewPlatformFollowSystem() *PlatformFollowSystem {
	return &PlatformFollowSystem{}
}

func (s *PlatformFollowSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	dt := fixedDt(w)

	motion := func(id physics.ColliderID, point mgl64.Vec3) mgl64.Vec3 {
		c, ok := pw.Get(id)
		if !ok {
			return mgl64.Vec3{}
		}
		owner, ok := c.UserData.(ecs.Entity)
		if !ok {
			return mgl64.Vec3{}
		}
		cur, ok := ecs.Get(w, owner, component.TransformComponent.Kind())
		if !ok {
			return mgl64.Vec3{}
		}
		prev, ok := ecs.Get(w, owner, component.PreviousTransformComponent.Kind())
		if !ok {
			return mgl64.Vec3{}
		}
		return kcc.MotionOnPoint(point, *cur, kcc.Transform(*prev))
	}

	ecs.ForEach3(w, component.CharacterComponent.Kind(), component.TransformComponent.Kind(), component.CharacterFilterComponent.Kind(), func(e ecs.Entity, ch *component.Character, tf *component.Transform, filter *component.CharacterFilter) {
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			return
		}
		ctrl := kcc.Controller{Query: pw, Shape: ch.Tuning.Shape(), Filter: filter.QueryFilter, Tuning: ch.Tuning}
		if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
			ctrl.Shape = col.Shape
		}
		ctrl.FollowPlatform(&ch.Character, tf, motion, dt)
	})
}
