package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/storage"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

const (
	mpCSV = `Section,Top [m],Bottom [m],"D, top [m]","D, bottom [m]",t [mm]
1,10,-10,6,6.5,60
2,-10,-30,6.5,7,80
`
	tpCSV = `Section,Top [m],Bottom [m],"D, top [m]","D, bottom [m]",t [mm]
1,12,8,6.2,6.2,45
`
	towerCSV = `Section,Top [m],Bottom [m],"D, top [m]","D, bottom [m]",t [mm]
1,30,12,4,5,40
`
	mpMetaCSV = `Identifier,Height Reference,Water Depth [m]
MP_A,LAT,25
`
	rnaCSV = `Identifier,Mass [t],CoG z [m],comment
IEA-15-240,1017,3.2,reference turbine
`
)

func writeTestCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestResolveInputsFromCSV(t *testing.T) {
	dir := t.TempDir()
	f := inputFlags{
		mp:         roleFlags{segments: writeTestCSV(t, dir, "mp.csv", mpCSV), meta: writeTestCSV(t, dir, "mp_meta.csv", mpMetaCSV)},
		tp:         roleFlags{segments: writeTestCSV(t, dir, "tp.csv", tpCSV)},
		tower:      roleFlags{segments: writeTestCSV(t, dir, "tower.csv", towerCSV)},
		rnaCatalog: writeTestCSV(t, dir, "rna.csv", rnaCSV),
	}

	in, err := testCLI().resolveInputs(context.Background(), f, projectFile{}, Config{})
	if err != nil {
		t.Fatalf("resolveInputs() error = %v", err)
	}

	if got := in.MP.Segments.Len(); got != 2 {
		t.Errorf("MP sections = %d, want 2", got)
	}
	if in.MP.Meta.Identifier != "MP_A" || in.MP.Meta.HeightReference != "LAT" {
		t.Errorf("MP meta = %+v, want MP_A/LAT", in.MP.Meta)
	}
	if got := in.TP.Segments.Len(); got != 1 {
		t.Errorf("TP sections = %d, want 1", got)
	}
	if got := in.Tower.Segments.Len(); got != 1 {
		t.Errorf("tower sections = %d, want 1", got)
	}
	if len(in.RNACatalog) != 1 || in.RNACatalog[0].Identifier != "IEA-15-240" {
		t.Errorf("RNACatalog = %+v, want one IEA-15-240 entry", in.RNACatalog)
	}
}

func TestResolveInputsMissingRole(t *testing.T) {
	dir := t.TempDir()
	f := inputFlags{
		mp: roleFlags{segments: writeTestCSV(t, dir, "mp.csv", mpCSV)},
	}

	_, err := testCLI().resolveInputs(context.Background(), f, projectFile{}, Config{})
	if err == nil {
		t.Fatal("missing TP input should error")
	}
	if !strings.Contains(err.Error(), "no TP input") || !strings.Contains(err.Error(), "--tp-id") {
		t.Errorf("error = %v, want hint naming the --tp flags", err)
	}
}

func TestResolveInputsProjectMerge(t *testing.T) {
	dir := t.TempDir()

	// The project names all three sources, but the MP flag must win.
	proj := projectFile{
		MP:    projectSource{Segments: writeTestCSV(t, dir, "mp_project.csv", tpCSV)},
		TP:    projectSource{Segments: writeTestCSV(t, dir, "tp.csv", tpCSV)},
		Tower: projectSource{Segments: writeTestCSV(t, dir, "tower.csv", towerCSV)},
	}
	f := inputFlags{
		mp: roleFlags{segments: writeTestCSV(t, dir, "mp_flag.csv", mpCSV)},
	}

	in, err := testCLI().resolveInputs(context.Background(), f, proj, Config{})
	if err != nil {
		t.Fatalf("resolveInputs() error = %v", err)
	}

	if got := in.MP.Segments.Len(); got != 2 {
		t.Errorf("MP sections = %d, want 2 (flag CSV, not project CSV)", got)
	}
	if got := in.TP.Segments.Len(); got != 1 {
		t.Errorf("TP sections = %d, want 1", got)
	}
}

func TestResolveInputsFromDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "structures.db")

	st, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	seed := func(kind storage.Kind, id string, top, bottom float64) {
		t.Helper()
		b := structure.Bundle{
			Meta: structure.Meta{Identifier: id},
			Segments: structure.Structure{
				{Section: 1, Top: top, Bottom: bottom, DTop: 6, DBottom: 6, Thickness: 60},
			},
		}
		if err := st.Save(ctx, kind, b); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	seed(storage.KindMP, "MP_A", 10, -30)
	seed(storage.KindTP, "TP_A", 12, 8)
	seed(storage.KindTower, "TOWER_A", 30, 12)
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	f := inputFlags{
		dbPath: dbPath,
		mp:     roleFlags{id: "MP_A"},
		tp:     roleFlags{id: "TP_A"},
		tower:  roleFlags{id: "TOWER_A"},
	}

	in, err := testCLI().resolveInputs(ctx, f, projectFile{}, Config{})
	if err != nil {
		t.Fatalf("resolveInputs() error = %v", err)
	}
	if in.MP.Meta.Identifier != "MP_A" || in.TP.Meta.Identifier != "TP_A" || in.Tower.Meta.Identifier != "TOWER_A" {
		t.Errorf("identifiers = %q/%q/%q, want MP_A/TP_A/TOWER_A",
			in.MP.Meta.Identifier, in.TP.Meta.Identifier, in.Tower.Meta.Identifier)
	}
}

func TestResolveInputsUnknownID(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "structures.db")

	st, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	f := inputFlags{
		dbPath: dbPath,
		mp:     roleFlags{id: "NOPE"},
	}

	_, err = testCLI().resolveInputs(context.Background(), f, projectFile{}, Config{})
	if err == nil {
		t.Fatal("unknown identifier should error")
	}
}

func TestOptionsPrecedence(t *testing.T) {
	c := testCLI()
	proj := projectFile{Rho: 8000, RNA: "IEA-15-240", Overlap: "grouted", OnConflict: "abort"}
	cfg := Config{Rho: 7900}

	// Flags override the project file.
	o := optionFlags{rho: 8100, overlap: "skirt"}
	opts := o.options(c, proj, cfg)
	if opts.Rho != 8100 {
		t.Errorf("Rho = %g, want flag value 8100", opts.Rho)
	}
	if opts.OverlapMode != assembly.OverlapSkirt {
		t.Errorf("OverlapMode = %q, want skirt", opts.OverlapMode)
	}
	if opts.RNA != "IEA-15-240" {
		t.Errorf("RNA = %q, want project value", opts.RNA)
	}
	if opts.OnConflict != assembly.ConflictAbort {
		t.Errorf("OnConflict = %q, want project value abort", opts.OnConflict)
	}
	if opts.Confirm == nil {
		t.Error("interactive runs should carry a confirm func")
	}

	// The project file overrides the config.
	opts = optionFlags{}.options(c, proj, cfg)
	if opts.Rho != 8000 {
		t.Errorf("Rho = %g, want project value 8000", opts.Rho)
	}

	// The config is the last fallback.
	opts = optionFlags{}.options(c, projectFile{}, cfg)
	if opts.Rho != 7900 {
		t.Errorf("Rho = %g, want config value 7900", opts.Rho)
	}
}

func TestOptionsYes(t *testing.T) {
	c := testCLI()

	opts := optionFlags{yes: true}.options(c, projectFile{}, Config{})
	if opts.OverlapMode != assembly.OverlapSkirt {
		t.Errorf("OverlapMode = %q, want skirt", opts.OverlapMode)
	}
	if opts.OnConflict != assembly.ConflictProceed {
		t.Errorf("OnConflict = %q, want proceed", opts.OnConflict)
	}
	if opts.Confirm != nil {
		t.Error("--yes runs must not prompt")
	}

	// Explicit decisions survive --yes.
	opts = optionFlags{yes: true, overlap: "grouted", onConflict: "abort"}.options(c, projectFile{}, Config{})
	if opts.OverlapMode != assembly.OverlapGrouted {
		t.Errorf("OverlapMode = %q, want grouted", opts.OverlapMode)
	}
	if opts.OnConflict != assembly.ConflictAbort {
		t.Errorf("OnConflict = %q, want abort", opts.OnConflict)
	}
}
