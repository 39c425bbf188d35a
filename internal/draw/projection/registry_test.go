package projection

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func near(a, b orb.Point, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol
}

func TestTransformPointUTM32(t *testing.T) {
	r := newRegistry(t)

	// центральный меридиан зоны 32 - 9 градусов восточной долготы
	got, err := r.TransformPoint(orb.Point{9, 52}, WGS84, UTM32)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got[0]-500000) > 0.01 {
		t.Errorf("easting = %v, want 500000", got[0])
	}
	if got[1] < 5.7e6 || got[1] > 5.8e6 {
		t.Errorf("northing = %v", got[1])
	}

	back, err := r.TransformPoint(got, UTM32, WGS84)
	if err != nil {
		t.Fatal(err)
	}
	if !near(back, orb.Point{9, 52}, 1e-6) {
		t.Errorf("round trip = %v", back)
	}
}

func TestTransformPointMercator(t *testing.T) {
	r := newRegistry(t)

	got, err := r.TransformPoint(orb.Point{0, 0}, WGS84, WebMercator)
	if err != nil {
		t.Fatal(err)
	}
	if !near(got, orb.Point{0, 0}, 1e-9) {
		t.Errorf("origin = %v", got)
	}

	p := orb.Point{1113194.9079, 0}
	wgs, err := r.TransformPoint(p, WebMercator, WGS84)
	if err != nil {
		t.Fatal(err)
	}
	if !near(wgs, orb.Point{10, 0}, 1e-6) {
		t.Errorf("lon = %v, want 10", wgs)
	}
}

func TestTransformAcrossProjections(t *testing.T) {
	r := newRegistry(t)

	merc, err := r.TransformPoint(orb.Point{500000, 5761038}, UTM32, WebMercator)
	if err != nil {
		t.Fatal(err)
	}
	utm, err := r.TransformPoint(merc, WebMercator, UTM32)
	if err != nil {
		t.Fatal(err)
	}
	if !near(utm, orb.Point{500000, 5761038}, 1e-2) {
		t.Errorf("round trip = %v", utm)
	}
}

func TestUnknownProjection(t *testing.T) {
	r := newRegistry(t)
	if _, err := r.TransformPoint(orb.Point{1, 1}, "EPSG:9999", WGS84); err == nil {
		t.Error("expected error for unknown projection")
	}
	if r.Known("EPSG:9999") {
		t.Error("EPSG:9999 reported as known")
	}
	if !r.Known(UTM32) || !r.Known(WebMercator) {
		t.Error("builtin projections not known")
	}
}

func TestGeometryDoesNotMutateInput(t *testing.T) {
	r := newRegistry(t)
	line := orb.LineString{{0, 0}, {10, 0}}

	out, err := r.Geometry(line, WGS84, WebMercator)
	if err != nil {
		t.Fatal(err)
	}
	if line[1] != (orb.Point{10, 0}) {
		t.Errorf("input mutated: %v", line)
	}
	projected := out.(orb.LineString)
	if math.Abs(projected[1][0]-1113194.9079) > 1e-3 {
		t.Errorf("projected = %v", projected)
	}
}
