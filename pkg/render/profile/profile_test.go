package profile

import (
	"strings"
	"testing"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

func fptr(v float64) *float64 { return &v }

func testResult() *assembly.Result {
	return &assembly.Result{
		Assembled: []assembly.Row{
			{Section: 1, Local: 1, Affiliation: structure.AffiliationTower, Top: 42, Bottom: 12, DTop: 4, DBottom: 5, Thickness: 40},
			{Section: 2, Local: 1, Affiliation: structure.AffiliationTP, Top: 12, Bottom: 10, DTop: 5, DBottom: 5, Thickness: 50},
			{Section: 3, Local: 1, Affiliation: structure.AffiliationMP, Top: 10, Bottom: -30, DTop: 5, DBottom: 5.5, Thickness: 60},
		},
		Skirt: structure.Structure{
			{Top: 10, Bottom: 8, DTop: 5.2, DBottom: 5.2, Thickness: 50, Affiliation: structure.AffiliationSkirt},
		},
		Masses: []structure.AddedMass{
			{Affiliation: structure.AffiliationTower, Top: 40, Mass: 1.2, Comment: "nacelle"},
			{Affiliation: structure.AffiliationMP, Top: 5, Bottom: fptr(2), Mass: 3, Comment: "ladder"},
		},
		Datum: assembly.Datum{HeightReference: "LAT", Consistent: true, Seabed: fptr(-25)},
	}
}

func TestRender_Segments(t *testing.T) {
	svg := string(Render(testResult()))

	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an SVG document:\n%.120s", svg)
	}
	if got := strings.Count(svg, `class="segment"`); got != 3 {
		t.Errorf("drew %d segments, want 3", got)
	}
	for aff, fill := range fills {
		if aff == structure.AffiliationUnknown {
			continue
		}
		if !strings.Contains(svg, fill) {
			t.Errorf("missing %s fill %s", aff, fill)
		}
	}
}

func TestRender_SkirtWaterSeabed(t *testing.T) {
	svg := string(Render(testResult()))

	if got := strings.Count(svg, `class="skirt"`); got != 1 {
		t.Errorf("drew %d skirt polygons, want 1", got)
	}
	if !strings.Contains(svg, `class="waterline"`) {
		t.Error("missing waterline")
	}
	if !strings.Contains(svg, ">LAT</text>") {
		t.Error("waterline label missing the height reference")
	}
	if !strings.Contains(svg, `class="seabed"`) {
		t.Error("missing seabed line")
	}
}

func TestRender_AllAboveWater(t *testing.T) {
	res := &assembly.Result{
		Assembled: []assembly.Row{
			{Section: 1, Local: 1, Affiliation: structure.AffiliationTower, Top: 42, Bottom: 12, DTop: 4, DBottom: 5, Thickness: 40},
		},
	}
	svg := string(Render(res))
	if strings.Contains(svg, `class="waterline"`) {
		t.Error("waterline drawn for a structure entirely above water")
	}
	if strings.Contains(svg, `class="seabed"`) {
		t.Error("seabed drawn without a seabed level")
	}
}

func TestRender_Masses(t *testing.T) {
	res := testResult()

	plain := string(Render(res))
	if strings.Contains(plain, `class="mass"`) {
		t.Error("masses drawn without WithMasses")
	}

	svg := string(Render(res, WithMasses()))
	if got := strings.Count(svg, `<circle class="mass"`); got != 1 {
		t.Errorf("drew %d point masses, want 1", got)
	}
	if got := strings.Count(svg, `<line class="mass"`); got != 1 {
		t.Errorf("drew %d distributed masses, want 1", got)
	}
	if !strings.Contains(svg, "ladder") {
		t.Error("missing mass label")
	}
}

func TestRender_SizeAndTitle(t *testing.T) {
	svg := string(Render(testResult(), WithSize(800, 900), WithTitle("Site A & B")))

	if !strings.Contains(svg, `width="800" height="900"`) {
		t.Error("size option ignored")
	}
	if !strings.Contains(svg, "Site A &amp; B") {
		t.Error("title not escaped")
	}
}
