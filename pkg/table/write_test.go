package table

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

func TestWriteAssembled(t *testing.T) {
	rows := []assembly.Row{
		{Section: 1, Local: 1, Affiliation: structure.AffiliationTower, Top: 42, Bottom: 24, DTop: 4, DBottom: 4.4, Thickness: 40},
		{Section: 2, Local: 1, Affiliation: structure.AffiliationTP, Top: 24, Bottom: 12, DTop: 5, DBottom: 5, Thickness: 50},
		{Section: 3, Local: 1, Affiliation: structure.AffiliationMP, Top: 12, Bottom: 0, DTop: 5, DBottom: 5, Thickness: 50},
	}
	var buf bytes.Buffer
	if err := WriteAssembled(&buf, rows); err != nil {
		t.Fatalf("WriteAssembled() error = %v", err)
	}
	want := `Section,local Section,Affiliation,Top [m],Bottom [m],"D, top [m]","D, bottom [m]",t [mm]
1,1,TOWER,42,24,4,4.4,40
2,1,TP,24,12,5,5,50
3,1,MP,12,0,5,5,50
`
	if got := buf.String(); got != want {
		t.Errorf("WriteAssembled() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteSkirt(t *testing.T) {
	skirt := structure.Structure{
		{Section: 2, Top: 10, Bottom: 8, DTop: 5, DBottom: 5, Thickness: 50, Affiliation: structure.AffiliationSkirt},
	}
	var buf bytes.Buffer
	if err := WriteSkirt(&buf, skirt); err != nil {
		t.Fatalf("WriteSkirt() error = %v", err)
	}
	want := `Affiliation,Top [m],Bottom [m],"D, top [m]","D, bottom [m]",t [mm]
SKIRT,10,8,5,5,50
`
	if got := buf.String(); got != want {
		t.Errorf("WriteSkirt() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteSkirtMass(t *testing.T) {
	m := structure.AddedMass{Affiliation: structure.AffiliationSkirt, Top: 9, Mass: 2.45, Comment: "Skirt"}
	var buf bytes.Buffer
	if err := WriteSkirtMass(&buf, m); err != nil {
		t.Fatalf("WriteSkirtMass() error = %v", err)
	}
	want := "Affiliation,Elevation [m],Mass [t],comment\nSKIRT,9,2.45,Skirt\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteSkirtMass() = %q, want %q", got, want)
	}
}

func TestWriteAggregatedMasses(t *testing.T) {
	masses := []structure.AddedMass{
		{Affiliation: structure.AffiliationTower, Top: 37, Mass: 1.2, Comment: "nacelle equipment"},
		{Affiliation: structure.AffiliationMP, Top: 2, Bottom: fptr(-1), Mass: 3.5, Comment: "ladder"},
	}
	var buf bytes.Buffer
	if err := WriteAggregatedMasses(&buf, masses); err != nil {
		t.Fatalf("WriteAggregatedMasses() error = %v", err)
	}
	want := `Affiliation,Top [m],Bottom [m],Mass [t],comment
TOWER,37,,1.2,nacelle equipment
MP,2,-1,3.5,ladder
`
	if got := buf.String(); got != want {
		t.Errorf("WriteAggregatedMasses() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteOverview(t *testing.T) {
	tests := []struct {
		name  string
		datum assembly.Datum
		want  string
	}{
		{
			name:  "resolved",
			datum: assembly.Datum{HeightReference: "LAT", Seabed: fptr(-25)},
			want:  "Parameter,Value\nHeight Reference,LAT\nSeabed level,-25\n",
		},
		{
			name:  "unresolved stays blank",
			datum: assembly.Datum{},
			want:  "Parameter,Value\nHeight Reference,\nSeabed level,\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteOverview(&buf, tt.datum); err != nil {
				t.Fatalf("WriteOverview() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("WriteOverview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteMeta_BlankDepth(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMeta(&buf, structure.Meta{Identifier: "EXAMPLE_TP", HeightReference: "LAT"}); err != nil {
		t.Fatalf("WriteMeta() error = %v", err)
	}
	want := "Identifier,Height Reference,Water Depth [m]\nEXAMPLE_TP,LAT,\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteMeta() = %q, want %q", got, want)
	}
}

func TestSegmentsRoundTrip(t *testing.T) {
	in := structure.Structure{
		{Section: 1, Top: 21.5, Bottom: 10, DTop: 5.5, DBottom: 6, Thickness: 80},
		{Section: 2, Top: 10, Bottom: -8.2, DTop: 6, DBottom: 6, Thickness: 90},
	}
	var buf bytes.Buffer
	if err := WriteSegments(&buf, in); err != nil {
		t.Fatalf("WriteSegments() error = %v", err)
	}
	out, err := ReadSegments(&buf, "roundtrip")
	if err != nil {
		t.Fatalf("ReadSegments() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip changed the table:\n%+v\n%+v", in, out)
	}
}

func TestMassesRoundTrip(t *testing.T) {
	in := []structure.AddedMass{
		{Top: 19.5, Bottom: fptr(10.5), Mass: 25, Comment: "boat landing"},
		{Top: 21.35, Mass: 1.4, Comment: "platform"},
	}
	var buf bytes.Buffer
	if err := WriteMasses(&buf, in); err != nil {
		t.Fatalf("WriteMasses() error = %v", err)
	}
	out, err := ReadMasses(&buf, "roundtrip")
	if err != nil {
		t.Fatalf("ReadMasses() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip changed the table:\n%+v\n%+v", in, out)
	}
}

func TestWriteResult(t *testing.T) {
	res := &assembly.Result{
		Assembled: []assembly.Row{
			{Section: 1, Local: 1, Affiliation: structure.AffiliationTower, Top: 42, Bottom: 12, DTop: 4, DBottom: 5, Thickness: 40},
			{Section: 2, Local: 1, Affiliation: structure.AffiliationMP, Top: 12, Bottom: 0, DTop: 5, DBottom: 5, Thickness: 50},
		},
		Skirt: structure.Structure{
			{Section: 1, Top: 10, Bottom: 8, DTop: 5, DBottom: 5, Thickness: 50, Affiliation: structure.AffiliationSkirt},
		},
		SkirtMass: &structure.AddedMass{Affiliation: structure.AffiliationSkirt, Top: 9, Mass: 2.45, Comment: "Skirt"},
		Masses: []structure.AddedMass{
			{Affiliation: structure.AffiliationTower, Top: 37, Mass: 1.2, Comment: "nacelle"},
		},
		Datum: assembly.Datum{HeightReference: "LAT", Consistent: true, Seabed: fptr(-25)},
		RNA:   &structure.RNA{Identifier: "V164-9.5", Mass: 495, CogZ: 2.5},
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteResult(dir, res); err != nil {
		t.Fatalf("WriteResult() error = %v", err)
	}

	for _, name := range []string{FileAssembled, FileOverview, FileMasses, FileSkirt, FileSkirtMass, FileRNA} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, FileAssembled))
	if err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(string(data), "\n", 2)[0]
	if !strings.HasPrefix(first, "Section,local Section,Affiliation") {
		t.Errorf("assembled header = %q", first)
	}
}

func TestWriteResult_Minimal(t *testing.T) {
	res := &assembly.Result{
		Assembled: []assembly.Row{
			{Section: 1, Local: 1, Affiliation: structure.AffiliationMP, Top: 12, Bottom: 0, DTop: 5, DBottom: 5, Thickness: 50},
		},
		Datum: assembly.Datum{HeightReference: "LAT", Consistent: true},
	}

	dir := t.TempDir()
	if err := WriteResult(dir, res); err != nil {
		t.Fatalf("WriteResult() error = %v", err)
	}

	for _, name := range []string{FileSkirt, FileSkirtMass, FileRNA} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s written for a run without it", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, FileMasses)); err != nil {
		t.Errorf("missing %s: %v", FileMasses, err)
	}
}
