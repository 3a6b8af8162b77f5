package prefabs

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func useDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("prefabs") })
	return dir
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := useDir(t)

	embedded, err := LoadEntityBuildSpec("character.yaml")
	require.NoError(t, err)
	assert.Equal(t, "character", embedded.Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "character.yaml"), []byte("name: override\n"), 0o644))
	override, err := LoadEntityBuildSpec("prefabs/character.yaml")
	require.NoError(t, err)
	assert.Equal(t, "override", override.Name)

	_, ok := ModTime("character.yaml")
	assert.True(t, ok)
	_, ok = ModTime("camera.yaml")
	assert.False(t, ok)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"lift", "lift.tengo", "scripts/lift.tengo", "prefabs/scripts/lift"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(src), "offset")
	}
	_, err := LoadScript("teleport")
	assert.Error(t, err)
}

func TestScriptNames(t *testing.T) {
	dir := useDir(t)

	assert.Equal(t, "character.yaml", Relative(filepath.Join(dir, "character.yaml")))
	assert.Equal(t, "scripts/spin.tengo", Relative(filepath.Join(dir, "scripts", "spin.tengo")))
	assert.True(t, IsScript("scripts/spin.tengo"))
	assert.False(t, IsScript("character.yaml"))
	assert.True(t, SameScript("spin", filepath.Join(dir, "scripts", "spin.tengo")))
	assert.False(t, SameScript("spin", "lift"))
}

func TestShapeSpec(t *testing.T) {
	cases := []struct {
		name    string
		spec    ShapeSpec
		kind    physics.ShapeKind
		wantErr bool
	}{
		{"sphere", ShapeSpec{Kind: "sphere", Radius: 1}, physics.KindSphere, false},
		{"ball_alias", ShapeSpec{Kind: "Ball", Radius: 1}, physics.KindSphere, false},
		{"capsule", ShapeSpec{Kind: "capsule", Radius: 0.3, Length: 1}, physics.KindCapsule, false},
		{"cuboid", ShapeSpec{Kind: "cuboid", HalfExtents: Vec3{1, 2, 3}}, physics.KindCuboid, false},
		{"ramp", ShapeSpec{Kind: "ramp", HalfExtents: Vec3{1, 1, 1}}, physics.KindRamp, false},
		{"hull", ShapeSpec{Kind: "hull", Points: []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}, physics.KindHull, false},
		{"zero_radius", ShapeSpec{Kind: "sphere"}, 0, true},
		{"flat_cuboid", ShapeSpec{Kind: "cuboid", HalfExtents: Vec3{1, 0, 1}}, 0, true},
		{"infinite_ramp", ShapeSpec{Kind: "ramp", HalfExtents: Vec3{1, math.Inf(1), 1}}, 0, true},
		{"short_hull", ShapeSpec{Kind: "hull", Points: []Vec3{{0, 0, 0}}}, 0, true},
		{"unknown", ShapeSpec{Kind: "torus"}, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			shape, err := c.spec.Shape()
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.kind, shape.Kind)
		})
	}
}

func TestTuningSpec(t *testing.T) {
	tuning, err := DefaultTuningSpec().Tuning()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, tuning.WalkableAngle, 1e-12)

	cases := []struct {
		name   string
		mutate func(*TuningSpec)
	}{
		{"zero_radius", func(s *TuningSpec) { s.Radius = 0 }},
		{"negative_length", func(s *TuningSpec) { s.CapsuleLength = -1 }},
		{"flat_walkable", func(s *TuningSpec) { s.WalkableAngle = 0 }},
		{"vertical_walkable", func(s *TuningSpec) { s.WalkableAngle = 90 }},
		{"no_iterations", func(s *TuningSpec) { s.MoveAndSlide.MaxIterations = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := DefaultTuningSpec()
			c.mutate(&spec)
			_, err := spec.Tuning()
			assert.Error(t, err)
		})
	}
}

func TestDecodeComponentSpecKeepsDefaults(t *testing.T) {
	var raw any
	require.NoError(t, yaml.Unmarshal([]byte("movement_speed: 12\nmove_and_slide: {skin_width: 0.02}\n"), &raw))

	spec, err := DecodeComponentSpec(raw, DefaultTuningSpec())
	require.NoError(t, err)
	assert.InDelta(t, 12, spec.MovementSpeed, 1e-12)
	assert.InDelta(t, 0.02, spec.MoveAndSlide.SkinWidth, 1e-12)
	assert.Equal(t, 4, spec.MoveAndSlide.MaxIterations)
	assert.InDelta(t, 20, spec.Gravity, 1e-12)

	same, err := DecodeComponentSpec[TuningSpec](nil, DefaultTuningSpec())
	require.NoError(t, err)
	assert.Equal(t, DefaultTuningSpec(), same)
}

func TestTransformSpec(t *testing.T) {
	tf := TransformSpec{Position: Vec3{1, 2, 3}, Rotation: Vec3{0, 90, 0}}.Transform()
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, tf.Translation)

	forward := tf.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, 1, forward.X(), 1e-9)
	assert.InDelta(t, 0, forward.Z(), 1e-9)
}

func TestLayerMask(t *testing.T) {
	mask, err := LayerMask([]string{"default", " Platform "})
	require.NoError(t, err)
	assert.Equal(t, physics.LayerDefault|physics.LayerPlatform, mask)

	mask, err = LayerMask(nil)
	require.NoError(t, err)
	assert.Zero(t, mask)

	_, err = LayerMask([]string{"water"})
	assert.Error(t, err)
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#ff8000"`, color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, false},
		{`"40c0c080"`, color.NRGBA{R: 0x40, G: 0xc0, B: 0xc0, A: 0x80}, false},
		{`"#fff"`, color.NRGBA{}, true},
		{`"#zzzzzz"`, color.NRGBA{}, true},
		{`[1, 2]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got.NRGBA(color.NRGBA{}))
		})
	}

	var unset *YAMLColor
	fallback := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	assert.Equal(t, fallback, unset.NRGBA(fallback))
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camera.yaml"), []byte("name: camera\n"), 0o644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Poll()...)
		return len(got) > 0
	}, 2*time.Second, 20*time.Millisecond)

	for _, p := range got {
		assert.Equal(t, "camera.yaml", filepath.Base(p))
	}
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "closing twice is a no-op")
}
