package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// projectFile is the TOML description of one assembly: where each structure
// comes from plus run options. CSV paths are resolved relative to the file,
// flags override matching fields.
//
//	rho = 8050.0
//	rna = "IEA-15-240"
//	rna_catalog = "rna.csv"
//	overlap = "skirt"
//	on_conflict = "proceed"
//	out = "out"
//
//	[mp]
//	segments = "mp.csv"
//	masses = "mp_masses.csv"
//	meta = "mp_meta.csv"
//
//	[tp]
//	id = "TP_B07"
//
//	[tower]
//	segments = "tower.csv"
type projectFile struct {
	Rho        float64 `toml:"rho"`
	RNA        string  `toml:"rna"`
	RNACatalog string  `toml:"rna_catalog"`
	Overlap    string  `toml:"overlap"`
	OnConflict string  `toml:"on_conflict"`
	Out        string  `toml:"out"`

	MP    projectSource `toml:"mp"`
	TP    projectSource `toml:"tp"`
	Tower projectSource `toml:"tower"`
}

// projectSource names one structure input: either a database identifier or
// a set of CSV files.
type projectSource struct {
	ID       string `toml:"id"`
	Segments string `toml:"segments"`
	Masses   string `toml:"masses"`
	Meta     string `toml:"meta"`
}

// loadProjectIfSet parses the project file when a path is given, otherwise
// it returns the zero project.
func loadProjectIfSet(path string) (projectFile, error) {
	if path == "" {
		return projectFile{}, nil
	}
	return loadProject(path)
}

// loadProject parses a project file and resolves its CSV paths relative to
// the file's directory.
func loadProject(path string) (projectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return projectFile{}, fmt.Errorf("read project %s: %w", path, err)
	}
	var p projectFile
	if err := toml.Unmarshal(data, &p); err != nil {
		return projectFile{}, fmt.Errorf("parse project %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	p.RNACatalog = resolvePath(dir, p.RNACatalog)
	p.Out = resolvePath(dir, p.Out)
	for _, src := range []*projectSource{&p.MP, &p.TP, &p.Tower} {
		src.Segments = resolvePath(dir, src.Segments)
		src.Masses = resolvePath(dir, src.Masses)
		src.Meta = resolvePath(dir, src.Meta)
	}
	return p, nil
}

// resolvePath joins dir and path unless path is empty or already absolute.
func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
