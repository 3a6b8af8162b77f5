package system

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/physics"
	"golang.org/x/image/colornames"
)

const (
	pixelsPerMeter = 24.0
	hudHeight      = 96
	ghostRadius    = 0.35
)

// Projection maps world points into one debug view. Axis U runs right and
// axis V runs down the screen, flipped when FlipV is set.
type Projection struct {
	Rect   image.Rectangle
	Center mgl64.Vec3
	Scale  float64
	U, V   int
	FlipV  bool
	Label  string
}

func (p Projection) Project(v mgl64.Vec3) (float32, float32) {
	cx := float64(p.Rect.Min.X+p.Rect.Max.X) / 2
	cy := float64(p.Rect.Min.Y+p.Rect.Max.Y) / 2
	du := (v[p.U] - p.Center[p.U]) * p.Scale
	dv := (v[p.V] - p.Center[p.V]) * p.Scale
	if p.FlipV {
		dv = -dv
	}
	return float32(cx + du), float32(cy + dv)
}

// TopView looks down the Y axis: X runs right and Z runs down the screen.
func TopView(rect image.Rectangle, center mgl64.Vec3) Projection {
	return Projection{Rect: rect, Center: center, Scale: pixelsPerMeter, U: 0, V: 2, Label: "top (x/z)"}
}

// SideView looks down the Z axis: X runs right and Y runs up the screen.
func SideView(rect image.Rectangle, center mgl64.Vec3) Projection {
	return Projection{Rect: rect, Center: center, Scale: pixelsPerMeter, U: 0, V: 1, FlipV: true, Label: "side (x/y)"}
}

// RenderSystem draws the collision world from above and from the side,
// centered on the player, plus a HUD.
type RenderSystem struct {
	Debug bool
}

func NewRenderSystem(debug bool) *RenderSystem {
	return &RenderSystem{Debug: debug}
}

func (r *RenderSystem) Update(*ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Black)

	center := mgl64.Vec3{}
	target, _, hasPlayer := player(w)
	if hasPlayer {
		if tf, ok := ecs.Get(w, target, component.TransformComponent.Kind()); ok {
			center = tf.Translation
		}
	}

	b := screen.Bounds()
	half := b.Min.X + b.Dx()/2
	views := []Projection{
		TopView(image.Rect(b.Min.X, b.Min.Y+hudHeight, half, b.Max.Y), center),
		SideView(image.Rect(half, b.Min.Y+hudHeight, b.Max.X, b.Max.Y), center),
	}

	drawables := r.collect(w)
	for _, p := range views {
		dst, ok := screen.SubImage(p.Rect).(*ebiten.Image)
		if !ok {
			continue
		}
		dst.Fill(color.NRGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff})
		for _, d := range drawables {
			drawShape(dst, p, d)
		}
		r.drawCharacters(w, dst, p)
		r.drawCamera(w, dst, p)
		vector.StrokeRect(dst, float32(p.Rect.Min.X), float32(p.Rect.Min.Y), float32(p.Rect.Dx()), float32(p.Rect.Dy()), 1, colornames.Dimgray, false)
		ebitenutil.DebugPrintAt(dst, p.Label, p.Rect.Min.X+6, p.Rect.Min.Y+4)
	}

	ebitenutil.DebugPrintAt(screen, r.hud(w), b.Min.X+10, b.Min.Y+6)
}

type drawable struct {
	shape physics.Shape
	tf    component.Transform
	style component.RenderStyle
}

func (r *RenderSystem) collect(w *ecs.World) []drawable {
	var out []drawable
	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, tf *component.Transform) {
		if ecs.Has(w, e, component.CharacterComponent.Kind()) {
			return
		}
		style := component.RenderStyle{Color: color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}}
		if s, ok := ecs.Get(w, e, component.RenderStyleComponent.Kind()); ok {
			style = *s
		}
		if col.Sensor && !r.Debug {
			return
		}
		out = append(out, drawable{shape: col.Shape, tf: *tf, style: style})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].style.Index < out[j].style.Index
	})
	return out
}

func drawShape(dst *ebiten.Image, p Projection, d drawable) {
	rot := common.OrIdentity(d.tf.Rotation)
	switch d.shape.Kind {
	case physics.KindSphere:
		x, y := p.Project(d.tf.Translation)
		vector.StrokeCircle(dst, x, y, float32(d.shape.Radius*p.Scale), 1.5, d.style.Color, true)
	case physics.KindCapsule:
		drawCapsule(dst, p, d.shape, d.tf.Translation, rot, d.style.Color)
	default:
		pts := make([][2]float32, 0, len(d.shape.Core))
		for _, c := range d.shape.Core {
			x, y := p.Project(d.tf.Translation.Add(rot.Rotate(c)))
			pts = append(pts, [2]float32{x, y})
		}
		strokePolygon(dst, hull2D(pts), d.style.Color)
	}
}

func drawCapsule(dst *ebiten.Image, p Projection, shape physics.Shape, pos mgl64.Vec3, rot mgl64.Quat, clr color.Color) {
	r := float32(shape.Radius * p.Scale)
	if len(shape.Core) < 2 {
		x, y := p.Project(pos)
		vector.StrokeCircle(dst, x, y, r, 1.5, clr, true)
		return
	}
	ax, ay := p.Project(pos.Add(rot.Rotate(shape.Core[0])))
	bx, by := p.Project(pos.Add(rot.Rotate(shape.Core[1])))
	vector.StrokeCircle(dst, ax, ay, r, 1.5, clr, true)
	vector.StrokeCircle(dst, bx, by, r, 1.5, clr, true)
	vector.StrokeLine(dst, ax-r, ay, bx-r, by, 1.5, clr, true)
	vector.StrokeLine(dst, ax+r, ay, bx+r, by, 1.5, clr, true)
}

func (r *RenderSystem) drawCharacters(w *ecs.World, dst *ebiten.Image, p Projection) {
	ecs.ForEach3(w, component.CharacterComponent.Kind(), component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, ch *component.Character, tf *component.Transform, col *component.Collider) {
		clr := color.Color(colornames.Deepskyblue)
		if s, ok := ecs.Get(w, e, component.RenderStyleComponent.Kind()); ok {
			clr = s.Color
		}
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			clr = colornames.Slategray
		}
		drawCapsule(dst, p, col.Shape, tf.Translation, common.OrIdentity(tf.Rotation), clr)

		x, y := p.Project(tf.Translation)
		vx, vy := p.Project(tf.Translation.Add(ch.Velocity.Mul(0.25)))
		vector.StrokeLine(dst, x, y, vx, vy, 1, colornames.Yellow, true)

		if ch.Grounded() {
			foot := tf.Translation.Sub(ch.Up.Mul(ch.Tuning.CapsuleLength/2 + ch.Tuning.Radius))
			fx, fy := p.Project(foot)
			nx, ny := p.Project(foot.Add(ch.Ground.Normal.Mul(0.75)))
			vector.StrokeLine(dst, fx, fy, nx, ny, 1, colornames.Lime, true)
		}
	})

	ecs.ForEach2(w, component.PlaybackComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Playback, tf *component.Transform) {
		clr := color.Color(colornames.White)
		if s, ok := ecs.Get(w, e, component.RenderStyleComponent.Kind()); ok {
			clr = s.Color
		}
		x, y := p.Project(tf.Translation)
		vector.StrokeCircle(dst, x, y, float32(ghostRadius*p.Scale), 1, clr, true)
	})
}

func (r *RenderSystem) drawCamera(w *ecs.World, dst *ebiten.Image, p Projection) {
	_, rig, tf, ok := camera(w)
	if !ok {
		return
	}
	x, y := p.Project(tf.Translation)
	lx, ly := p.Project(tf.Translation.Add(rig.View().Rotate(common.Forward)))
	vector.FillRect(dst, x-3, y-3, 6, 6, colornames.Orange, false)
	vector.StrokeLine(dst, x, y, lx, ly, 1, colornames.Orange, true)
}

func (r *RenderSystem) hud(w *ecs.World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if c := clockOf(w); c != nil {
		fmt.Fprintf(&sb, "  ticks: %d", c.Ticks)
	}
	sb.WriteString("\n")

	if e, _, ok := player(w); ok {
		tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		ch, _ := ecs.Get(w, e, component.CharacterComponent.Kind())
		if tf != nil && ch != nil {
			t := tf.Translation
			fmt.Fprintf(&sb, "pos: %.2f %.2f %.2f  speed: %.2f  grounded: %v\n", t.X(), t.Y(), t.Z(), ch.Velocity.Len(), ch.Grounded())
		}
	}
	if _, rig, _, ok := camera(w); ok {
		mode := "orbit"
		switch {
		case rig.Flying:
			mode = "fly"
		case rig.FirstPerson:
			mode = "first person"
		}
		fmt.Fprintf(&sb, "camera: %s  arm: %.2f/%.2f\n", mode, rig.Distance, rig.TargetDistance)
	}
	if e, ok := ecs.First(w, component.RecorderComponent.Kind()); ok {
		rec, _ := ecs.Get(w, e, component.RecorderComponent.Kind())
		fmt.Fprintf(&sb, "recorder: %s  demos: %d\n", rec.State, len(rec.Order))
	}
	ecs.ForEach(w, component.NoticeComponent.Kind(), func(_ ecs.Entity, n *component.Notice) {
		sb.WriteString("> " + n.Text + "\n")
	})
	sb.WriteString("WASD move  mouse look  space jump  V view  F fly  R record  T save  Esc pause")
	return sb.String()
}

func strokePolygon(dst *ebiten.Image, pts [][2]float32, clr color.Color) {
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, a[0], a[1], b[0], b[1], 1.5, clr, true)
	}
}

// hull2D returns the convex hull of pts in counter-clockwise order
// (monotone chain).
func hull2D(pts [][2]float32) [][2]float32 {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([][2]float32(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})
	cross := func(o, a, b [2]float32) float32 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	hull := make([][2]float32, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
