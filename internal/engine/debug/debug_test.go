package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/charctl/internal/physics"
)

func pos(v Vertex) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestBoxLines(t *testing.T) {
	half := mgl32.Vec3{1, 2, 3}
	vs := BoxLines(half, physics.At(mgl32.Vec3{10, 0, 0}), ColorFixed)

	if len(vs) != BoxVertexCount {
		t.Fatalf("expected %d vertices, got %d", BoxVertexCount, len(vs))
	}
	for i, v := range vs {
		local := pos(v).Sub(mgl32.Vec3{10, 0, 0})
		for axis := 0; axis < 3; axis++ {
			if !near(math32.Abs(local[axis]), half[axis]) {
				t.Fatalf("vertex %d at %v is not a corner", i, pos(v))
			}
		}
	}

	// Every edge runs along exactly one axis.
	for i := 0; i < len(vs); i += 2 {
		d := pos(vs[i+1]).Sub(pos(vs[i]))
		moved := 0
		for axis := 0; axis < 3; axis++ {
			if !near(d[axis], 0) {
				moved++
			}
		}
		if moved != 1 {
			t.Errorf("edge %d spans %d axes", i/2, moved)
		}
	}
}

func TestBoxLinesRotated(t *testing.T) {
	pose := physics.Iso{Rotation: mgl32.QuatRotate(math32.Pi/4, mgl32.Vec3{0, 1, 0})}
	vs := BoxLines(mgl32.Vec3{1, 1, 1}, pose, ColorFixed)

	for _, v := range vs {
		p := pos(v)
		if !near(mgl32.Vec2{p[0], p[2]}.Len(), math32.Sqrt2) {
			t.Fatalf("rotated corner %v is not at distance sqrt(2) from the axis", p)
		}
	}
}

func TestCylinderLines(t *testing.T) {
	cyl := physics.Cylinder{HalfHeight: 2.25, Radius: 1.25}
	centre := mgl32.Vec3{0, 3, 0}
	vs := CylinderLines(cyl, physics.At(centre), 16, ColorKinematic)

	if len(vs) != CylinderVertexCount(16) {
		t.Fatalf("expected %d vertices, got %d", CylinderVertexCount(16), len(vs))
	}
	for _, v := range vs {
		local := pos(v).Sub(centre)
		if !near(mgl32.Vec2{local[0], local[2]}.Len(), cyl.Radius) {
			t.Fatalf("vertex %v is off the cylinder wall", pos(v))
		}
		if !near(math32.Abs(local[1]), cyl.HalfHeight) {
			t.Fatalf("vertex %v is off the caps", pos(v))
		}
		if v.R != ColorKinematic[0] || v.G != ColorKinematic[1] || v.B != ColorKinematic[2] {
			t.Fatalf("unexpected color %v", v)
		}
	}
}

func TestHalfSpaceGrid(t *testing.T) {
	normal := mgl32.Vec3{0, 1, 1}.Normalize()
	origin := mgl32.Vec3{1, 2, 3}
	vs := HalfSpaceGrid(physics.HalfSpace{Normal: normal}, physics.At(origin), 5, 4, ColorFixed)

	if len(vs) != GridVertexCount(4) {
		t.Fatalf("expected %d vertices, got %d", GridVertexCount(4), len(vs))
	}
	for _, v := range vs {
		if d := pos(v).Sub(origin).Dot(normal); !near(d, 0) {
			t.Fatalf("vertex %v is %f off the plane", pos(v), d)
		}
	}

	if vs := HalfSpaceGrid(physics.HalfSpace{}, physics.Identity(), 5, 4, ColorFixed); vs != nil {
		t.Errorf("expected no grid for a zero normal, got %d vertices", len(vs))
	}
}

func TestSceneLinesSkipsPlayer(t *testing.T) {
	w := physics.NewWorld()
	w.Insert(physics.HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, physics.Identity(), physics.BodyFixed)
	w.Insert(physics.Cuboid{HalfExtents: mgl32.Vec3{1, 1, 1}}, physics.At(mgl32.Vec3{5, 1, 0}), physics.BodyFixed)
	player := w.Insert(physics.Cylinder{HalfHeight: 1, Radius: 0.5}, physics.At(mgl32.Vec3{0, 1, 0}), physics.BodyKinematicPositionBased)

	want := GridVertexCount(GridCells) + BoxVertexCount
	if got := len(SceneLines(w, player)); got != want {
		t.Errorf("expected %d vertices without the player, got %d", want, got)
	}
	if got := len(SceneLines(w, 0)); got != want+CylinderVertexCount(CylinderSegments) {
		t.Errorf("expected the player cylinder when nothing is skipped, got %d", got)
	}
}

func TestBodyColor(t *testing.T) {
	if BodyColor(physics.BodyFixed) != ColorFixed {
		t.Error("fixed bodies should use ColorFixed")
	}
	if BodyColor(physics.BodyKinematicPositionBased) != ColorKinematic {
		t.Error("kinematic bodies should use ColorKinematic")
	}
	if BodyColor(physics.BodyDynamic) != ColorDynamic {
		t.Error("dynamic bodies should use ColorDynamic")
	}
}

func TestFlatten(t *testing.T) {
	vs := []Vertex{{1, 2, 3, 0.1, 0.2, 0.3}, {4, 5, 6, 0.4, 0.5, 0.6}}
	got := Flatten(vs)
	want := []float32{1, 2, 3, 0.1, 0.2, 0.3, 4, 5, 6, 0.4, 0.5, 0.6}
	if len(got) != len(want) {
		t.Fatalf("expected %d floats, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestScreenshotsSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "charctl")
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 1, 2)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasSuffix(path, "charctl_2024-01-02_03-04-05_001.png") {
		t.Errorf("unexpected path %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("expected the top row to be blue after the flip")
	}

	second, err := s.Save(pixels, 1, 2)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if second == path {
		t.Error("expected distinct names for captures in the same second")
	}
}

func TestScreenshotsSaveRejectsBadSize(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "x")
	if _, err := s.Save(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := s.Save(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}
