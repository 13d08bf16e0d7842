package field

import (
	"math/rand"
	"testing"

	"github.com/san-kum/pointfield/internal/mathutil"
)

type recordingUploader struct {
	regions []Region
}

func (r *recordingUploader) Upload(region Region, data []float32) {
	r.regions = append(r.regions, region)
}

func TestBuffersLoadMarksAllDirty(t *testing.T) {
	points := Generate(testConfig(), scenarioIndices, nil, rand.New(rand.NewSource(1)))
	buf := NewBuffers(len(points))
	buf.Load(points)

	d := buf.Poll()
	if !d.Position || !d.Scale || !d.Color {
		t.Errorf("expected every region dirty after load, got %+v", d)
	}
	if buf.Poll().Any() {
		t.Error("poll should clear dirty flags")
	}
	if got := buf.Position(4); got.X != float64(float32(points[4].Base.X)) {
		t.Errorf("position not written: %+v", got)
	}
}

func TestBuffersIndependentRegions(t *testing.T) {
	buf := NewBuffers(3)

	buf.SetScale(1, 2.5)
	if !buf.IsDirty(RegionScale) || buf.IsDirty(RegionColor) || buf.IsDirty(RegionPosition) {
		t.Errorf("only the scale region should be dirty")
	}
	buf.Poll()

	buf.SetColor(2, Color{1, 0, 0})
	d := buf.Poll()
	if d.Scale || !d.Color || d.Position {
		t.Errorf("unexpected dirty state %+v", d)
	}
	if c := buf.Color(2); c.R != 1 || c.G != 0 {
		t.Errorf("color not stored: %+v", c)
	}
}

func TestBuffersSetPositionUnchanged(t *testing.T) {
	buf := NewBuffers(1)
	v := mathutil.Vec3{X: 1, Y: 2, Z: 3}
	buf.SetPosition(0, v)
	buf.Poll()

	buf.SetPosition(0, v)
	if buf.IsDirty(RegionPosition) {
		t.Error("writing the same position should not mark the buffer dirty")
	}
}

func TestBuffersFlushUploadsOnlyDirty(t *testing.T) {
	buf := NewBuffers(2)
	buf.SetColor(0, Color{0, 1, 0})

	up := &recordingUploader{}
	buf.Flush(up)
	if len(up.regions) != 1 || up.regions[0] != RegionColor {
		t.Errorf("expected a single color upload, got %v", up.regions)
	}

	up.regions = nil
	buf.Flush(up)
	if len(up.regions) != 0 {
		t.Errorf("clean buffers should not upload, got %v", up.regions)
	}
}
