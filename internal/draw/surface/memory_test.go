package surface

import (
	"testing"

	"map-draw/internal/draw/models"
	"map-draw/internal/draw/projection"

	"github.com/paulmach/orb"
)

type stubInteraction struct{ mode models.InteractionMode }

func (s *stubInteraction) Mode() models.InteractionMode { return s.mode }
func (s *stubInteraction) Active() bool                 { return false }

func newMemory(t *testing.T) *Memory {
	t.Helper()
	reg, err := projection.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	return NewMemory(reg, projection.UTM32)
}

func TestCreateLayerIsIdempotent(t *testing.T) {
	m := newMemory(t)
	if _, ok := m.Layer("import_draw_layer"); ok {
		t.Fatal("layer exists before creation")
	}
	a := m.CreateLayer("import_draw_layer")
	b := m.CreateLayer("import_draw_layer")
	if a != b {
		t.Error("second CreateLayer returned a different layer")
	}
}

func TestLayerAddRemove(t *testing.T) {
	m := newMemory(t)
	l := m.CreateLayer("draw")
	l.Add(&models.DrawnFeature{ID: "a"})
	l.Add(&models.DrawnFeature{ID: "b"})

	if !l.Remove("a") || l.Remove("a") {
		t.Error("Remove did not report presence correctly")
	}
	if got := l.Features(); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("features = %v", got)
	}
	l.Clear()
	if len(l.Features()) != 0 {
		t.Error("Clear left features")
	}
}

func TestInteractionsAndQueues(t *testing.T) {
	m := newMemory(t)
	i := &stubInteraction{mode: models.ModeDraw}
	m.AddInteraction(i)
	if len(m.Interactions()) != 1 {
		t.Fatal("interaction not added")
	}
	m.RemoveInteraction(i)
	if len(m.Interactions()) != 0 {
		t.Fatal("interaction not removed")
	}

	m.RaiseAlert(models.MalformedDocumentAlert())
	if got := m.DrainAlerts(); len(got) != 1 || got[0].Kind != models.AlertMalformedDocument {
		t.Errorf("alerts = %v", got)
	}
	if len(m.DrainAlerts()) != 0 {
		t.Error("alerts not drained")
	}

	m.ZoomToExtent(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}})
	if b, ok := m.Extent(); !ok || b.Max != (orb.Point{1, 1}) {
		t.Errorf("extent = %v, %v", b, ok)
	}
}
