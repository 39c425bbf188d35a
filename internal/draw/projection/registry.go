package projection

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ============================================================
// Projection Registry
// ============================================================

const (
	WGS84       = "EPSG:4326"
	WebMercator = "EPSG:3857"
	UTM32       = "EPSG:25832"
	UTM33       = "EPSG:25833"
)

var builtin = map[string]string{
	WGS84: "+proj=longlat +datum=WGS84 +no_defs",
	UTM32: "+proj=utm +zone=32 +ellps=GRS80 +units=m +no_defs",
	UTM33: "+proj=utm +zone=33 +ellps=GRS80 +units=m +no_defs",
}

// Registry пересчитывает координаты между проекциями через WGS84.
// Web Mercator считается по формулам orb/project, остальные через proj4-описания.
type Registry struct {
	mu      sync.Mutex
	wgs     *proj.SR
	srs     map[string]*proj.SR
	toWGS   map[string]proj.Transformer
	fromWGS map[string]proj.Transformer
}

func NewRegistry() (*Registry, error) {
	wgs, err := proj.Parse(builtin[WGS84])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", WGS84, err)
	}
	r := &Registry{
		wgs:     wgs,
		srs:     make(map[string]*proj.SR),
		toWGS:   make(map[string]proj.Transformer),
		fromWGS: make(map[string]proj.Transformer),
	}
	for code, def := range builtin {
		if code == WGS84 {
			continue
		}
		if err := r.Register(code, def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register добавляет проекцию по proj4-строке.
func (r *Registry) Register(code, def string) error {
	sr, err := proj.Parse(def)
	if err != nil {
		return fmt.Errorf("parse %s: %w", code, err)
	}
	to, err := sr.NewTransform(r.wgs)
	if err != nil {
		return fmt.Errorf("transform %s -> %s: %w", code, WGS84, err)
	}
	from, err := r.wgs.NewTransform(sr)
	if err != nil {
		return fmt.Errorf("transform %s -> %s: %w", WGS84, code, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.srs[code] = sr
	r.toWGS[code] = to
	r.fromWGS[code] = from
	return nil
}

// Known сообщает, зарегистрирована ли проекция.
func (r *Registry) Known(code string) bool {
	if code == WGS84 || code == WebMercator {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.srs[code]
	return ok
}

func (r *Registry) TransformPoint(p orb.Point, from, to string) (orb.Point, error) {
	if from == to {
		return p, nil
	}
	wgs, err := r.toWGS84(p, from)
	if err != nil {
		return orb.Point{}, err
	}
	return r.fromWGS84(wgs, to)
}

// Geometry возвращает перепроецированную копию геометрии.
func (r *Registry) Geometry(g orb.Geometry, from, to string) (orb.Geometry, error) {
	cp := orb.Clone(g)
	if from == to {
		return cp, nil
	}
	var firstErr error
	out := project.Geometry(cp, func(p orb.Point) orb.Point {
		q, err := r.TransformPoint(p, from, to)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return q
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (r *Registry) toWGS84(p orb.Point, code string) (orb.Point, error) {
	switch code {
	case WGS84:
		return p, nil
	case WebMercator:
		return project.Mercator.ToWGS84(p), nil
	}
	tr, err := r.transformer(r.toWGS, code)
	if err != nil {
		return orb.Point{}, err
	}
	x, y, err := tr(p[0], p[1])
	if err != nil {
		return orb.Point{}, fmt.Errorf("%s -> %s: %w", code, WGS84, err)
	}
	return orb.Point{x, y}, nil
}

func (r *Registry) fromWGS84(p orb.Point, code string) (orb.Point, error) {
	switch code {
	case WGS84:
		return p, nil
	case WebMercator:
		return project.WGS84.ToMercator(p), nil
	}
	tr, err := r.transformer(r.fromWGS, code)
	if err != nil {
		return orb.Point{}, err
	}
	x, y, err := tr(p[0], p[1])
	if err != nil {
		return orb.Point{}, fmt.Errorf("%s -> %s: %w", WGS84, code, err)
	}
	return orb.Point{x, y}, nil
}

func (r *Registry) transformer(set map[string]proj.Transformer, code string) (proj.Transformer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tr, ok := set[code]
	if !ok {
		return nil, fmt.Errorf("unknown projection %s", code)
	}
	return tr, nil
}
