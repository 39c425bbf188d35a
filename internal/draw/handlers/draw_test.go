package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"map-draw/internal/draw/models"
	"map-draw/internal/draw/preview"
	"map-draw/internal/draw/projection"
	"map-draw/internal/draw/repository"
	"map-draw/internal/draw/service"
	"map-draw/internal/draw/style"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb/geojson"
)

type memoryStore struct {
	mu    sync.Mutex
	snaps []*models.Snapshot
}

func (m *memoryStore) Save(_ context.Context, s *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = fmt.Sprintf("snap-%d", len(m.snaps)+1)
	cp := *s
	m.snaps = append(m.snaps, &cp)
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.snaps {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) ListBySession(_ context.Context, sessionID string) ([]models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Snapshot
	for _, s := range m.snaps {
		if s.SessionID == sessionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newApp(t *testing.T, db Pinger) *fiber.App {
	t.Helper()
	reg, err := projection.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	sessions := service.NewSessionManager(reg, projection.WebMercator, models.DefaultStyleSettings())
	app := fiber.New()
	Register(app, NewDrawHandler(sessions, &memoryStore{}, preview.NewRenderer(64, 64)), NewHealthHandler(db), NewDocsHandler("../../../docs/draw.openapi.yaml"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid json %q: %v", data, err)
	}
	return out
}

func openSession(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	resp, data := do(t, app, http.MethodPost, "/sessions", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: %d %s", resp.StatusCode, data)
	}
	return decode(t, data)["id"].(string)
}

func gesture(t *testing.T, app *fiber.App, id, body string, want int) map[string]any {
	t.Helper()
	resp, data := do(t, app, http.MethodPost, "/sessions/"+id+"/gestures", body)
	if resp.StatusCode != want {
		t.Fatalf("gesture: status %d, want %d: %s", resp.StatusCode, want, data)
	}
	return decode(t, data)
}

const squareGesture = `{"geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}`

func TestDrawAndDownload(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Polygon","color":[228,26,28],"opacity":0.5}`)

	got := gesture(t, app, id, squareGesture, http.StatusCreated)
	if n := len(got["features"].([]any)); n != 1 {
		t.Fatalf("committed %d features", n)
	}

	resp, data := do(t, app, http.MethodGet, "/sessions/"+id+"/download?geomType=multiGeometry", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download: %d %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != geoJSONContentType {
		t.Errorf("content type = %q", ct)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Geometry.GeoJSONType() != "MultiPolygon" {
		t.Errorf("download = %s", data)
	}

	resp, data = do(t, app, http.MethodGet, "/sessions/"+id+"/download?pretty=true", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "\n") {
		t.Errorf("pretty download = %q", data)
	}
}

func TestCreateSessionRejectsDrawType(t *testing.T) {
	app := newApp(t, pinger{})
	resp, data := do(t, app, http.MethodPost, "/sessions", `{"drawType":"Text"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d: %s", resp.StatusCode, data)
	}
}

func TestMalformedPreloadAlerts(t *testing.T) {
	app := newApp(t, pinger{})
	resp, data := do(t, app, http.MethodPost, "/sessions", `{"drawType":"Point","initialDocument":"{oops"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	alerts := decode(t, data)["alerts"].([]any)
	if len(alerts) != 1 || alerts[0].(map[string]any)["kind"] != string(models.AlertMalformedDocument) {
		t.Errorf("alerts = %v", alerts)
	}
}

func TestInvalidRadius(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Circle"}`)

	resp, data := do(t, app, http.MethodPut, "/sessions/"+id+"/style", `{"circleMethod":"defined","circleRadius":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("style: %d %s", resp.StatusCode, data)
	}

	got := gesture(t, app, id, `{"circle":{"center":[0,0]}}`, http.StatusUnprocessableEntity)
	if alerts := got["alerts"].([]any); len(alerts) != 1 {
		t.Errorf("alerts = %v", alerts)
	}

	do(t, app, http.MethodPut, "/sessions/"+id+"/style", `{"unit":"km","circleRadius":1}`)
	got = gesture(t, app, id, `{"circle":{"center":[0,0]}}`, http.StatusCreated)
	f := got["features"].([]any)[0].(map[string]any)
	if f["kind"] != "Circle" || f["zIndex"].(float64) != 0 {
		t.Errorf("feature = %v", f)
	}
}

func TestFeatureLimit(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Point","maxFeatures":1}`)

	gesture(t, app, id, `{"geometry":{"type":"Point","coordinates":[1,1]}}`, http.StatusCreated)
	got := gesture(t, app, id, `{"geometry":{"type":"Point","coordinates":[2,2]}}`, http.StatusConflict)
	if alerts := got["alerts"].([]any); len(alerts) != 1 {
		t.Errorf("alerts = %v", alerts)
	}

	_, data := do(t, app, http.MethodGet, "/sessions/"+id, "")
	if mode := decode(t, data)["mode"]; mode != "idle" {
		t.Errorf("mode = %v, want idle", mode)
	}
}

func TestSelectDeleteUndo(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Polygon"}`)
	got := gesture(t, app, id, squareGesture, http.StatusCreated)
	fid := got["features"].([]any)[0].(map[string]any)["id"].(string)

	resp, _ := do(t, app, http.MethodDelete, "/sessions/"+id+"/features/"+fid, "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("delete in draw mode: %d", resp.StatusCode)
	}

	resp, data := do(t, app, http.MethodPost, "/sessions/"+id+"/mode", `{"mode":"select"}`)
	if resp.StatusCode != http.StatusOK || decode(t, data)["cursor"] != string(models.CursorCrosshair) {
		t.Fatalf("mode: %d %s", resp.StatusCode, data)
	}
	resp, _ = do(t, app, http.MethodDelete, "/sessions/"+id+"/features/"+fid, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.StatusCode)
	}

	_, data = do(t, app, http.MethodPost, "/sessions/"+id+"/undo", "")
	undo := decode(t, data)
	if undo["undone"] != true || len(undo["features"].([]any)) != 1 {
		t.Errorf("undo = %v", undo)
	}
}

func TestEditAndModify(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"LineString"}`)
	got := gesture(t, app, id, `{"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`, http.StatusCreated)
	fid := got["features"].([]any)[0].(map[string]any)["id"].(string)

	resp, _ := do(t, app, http.MethodPost, "/sessions/"+id+"/edit", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit: %d", resp.StatusCode)
	}
	resp, data := do(t, app, http.MethodPatch, "/sessions/"+id+"/features/"+fid, `{"geometry":{"type":"LineString","coordinates":[[0,0],[5,5]]}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("modify: %d %s", resp.StatusCode, data)
	}

	resp, data = do(t, app, http.MethodGet, "/sessions/"+id+"/features", "")
	bbox := decode(t, data)["bbox"].([]any)
	if resp.StatusCode != http.StatusOK || bbox[2].(float64) != 5 {
		t.Errorf("features: %d %s", resp.StatusCode, data)
	}
}

func TestSnapshotRestore(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Polygon"}`)
	gesture(t, app, id, squareGesture, http.StatusCreated)

	resp, data := do(t, app, http.MethodPost, "/sessions/"+id+"/snapshots", `{"geomType":"singleGeometry","transformWGS":true}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("snapshot: %d %s", resp.StatusCode, data)
	}
	sid := decode(t, data)["id"].(string)

	_, data = do(t, app, http.MethodGet, "/sessions/"+id+"/snapshots", "")
	if n := len(decode(t, data)["snapshots"].([]any)); n != 1 {
		t.Errorf("snapshots = %d", n)
	}

	resp, data = do(t, app, http.MethodPost, "/sessions", `{"drawType":"Point","snapshotId":"`+sid+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("restore: %d %s", resp.StatusCode, data)
	}
	features := decode(t, data)["features"].([]any)
	if len(features) != 1 {
		t.Fatalf("restored %d features", len(features))
	}
	geom := features[0].(map[string]any)["geometry"].(map[string]any)
	corner := geom["coordinates"].([]any)[0].([]any)[2].([]any)
	if x := corner[0].(float64); x < 9.999 || x > 10.001 {
		t.Errorf("restored corner = %v, want ~[10 10]", corner)
	}

	resp, _ = do(t, app, http.MethodGet, "/snapshots/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing snapshot: %d", resp.StatusCode)
	}
}

func TestPreview(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Polygon"}`)
	gesture(t, app, id, squareGesture, http.StatusCreated)

	resp, data := do(t, app, http.MethodGet, "/sessions/"+id+"/preview.png", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("preview: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("preview is not a png")
	}
}

func TestCancelAndClose(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Point"}`)

	_, data := do(t, app, http.MethodPost, "/sessions/"+id+"/cancel", "")
	if got := decode(t, data); got["mode"] != "idle" || got["open"] != false {
		t.Errorf("cancel = %v", got)
	}
	resp, _ := do(t, app, http.MethodDelete, "/sessions/"+id, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("close: %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodGet, "/sessions/"+id, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("closed session: %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	resp, _ := do(t, newApp(t, pinger{}), http.MethodGet, "/health/ready", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready: %d", resp.StatusCode)
	}
	resp, _ = do(t, newApp(t, pinger{err: errors.New("down")}), http.MethodGet, "/health/ready", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("ready with db down: %d", resp.StatusCode)
	}
}

func TestDocs(t *testing.T) {
	app := newApp(t, pinger{})
	resp, data := do(t, app, http.MethodGet, "/docs/openapi.yaml", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "/sessions/{id}/download") {
		t.Errorf("openapi: %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodGet, "/docs", "")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("swagger ui content type = %q", ct)
	}
}

func TestPreviewWhileRestyling(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Polygon"}`)
	got := gesture(t, app, id, squareGesture, http.StatusCreated)
	fid := got["features"].([]any)[0].(map[string]any)["id"].(string)

	var wg sync.WaitGroup
	statuses := make(chan int, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/preview.png", nil))
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
		go func() {
			defer wg.Done()
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/features/"+fid+"/restyle", nil))
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)
	for status := range statuses {
		if status != http.StatusOK {
			t.Errorf("status = %d", status)
		}
	}
}

func TestSessionSketch(t *testing.T) {
	app := newApp(t, pinger{})
	id := openSession(t, app, `{"drawType":"Circle"}`)

	_, data := do(t, app, http.MethodGet, "/sessions/"+id, "")
	sketch, ok := decode(t, data)["sketch"].(map[string]any)
	if !ok {
		t.Fatalf("no sketch while drawing: %s", data)
	}
	if label := sketch["label"].(map[string]any); label["text"] != style.CircleHint {
		t.Errorf("sketch label = %v", label)
	}

	got := gesture(t, app, id, `{"circle":{"center":[0,0],"edge":[0,100]}}`, http.StatusCreated)
	committed := got["features"].([]any)[0].(map[string]any)["style"].(map[string]any)
	if _, ok := committed["label"]; ok {
		t.Errorf("committed circle style has a label: %v", committed)
	}

	do(t, app, http.MethodPost, "/sessions/"+id+"/edit", "")
	_, data = do(t, app, http.MethodGet, "/sessions/"+id, "")
	if _, ok := decode(t, data)["sketch"]; ok {
		t.Errorf("sketch reported in modify mode: %s", data)
	}
}

func TestCreateSessionRejectsOpacity(t *testing.T) {
	app := newApp(t, pinger{})
	resp, data := do(t, app, http.MethodPost, "/sessions", `{"drawType":"Point","opacity":5}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d: %s", resp.StatusCode, data)
	}
}
