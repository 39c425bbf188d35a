package style

import (
	"os"
	"path/filepath"
	"testing"

	"map-draw/internal/draw/models"

	"github.com/kylelemons/godebug/pretty"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.ini")
	content := `[style]
font = Verdana
font_size = 14
color = 228, 26, 28
outer_contour_color = 0,0,0
opacity = 0.5
unit = km
circle_method = defined
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadDefaults(path)
	if err != nil {
		t.Fatal(err)
	}

	want := models.DefaultStyleSettings()
	want.Font = "Verdana"
	want.FontSize = 14
	want.Color = models.RGBA{228, 26, 28, 1}
	want.OuterColorContour = models.RGBA{0, 0, 0, 1}
	want.Unit = models.UnitKilometers
	want.CircleMethod = models.CircleDefined
	want.SetOpacity(0.5)

	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	got, err := LoadDefaults(filepath.Join(t.TempDir(), "absent.ini"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare(models.DefaultStyleSettings(), got); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.ini")
	if err := os.WriteFile(path, []byte("[style]\ncolor = red\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDefaults(path); err == nil {
		t.Error("expected error for bad color")
	}
}
