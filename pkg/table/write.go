package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// Output file names produced by WriteResult.
const (
	FileAssembled = "whole_structure.csv"
	FileOverview  = "structure_meta.csv"
	FileMasses    = "all_added_masses.csv"
	FileSkirt     = "skirt.csv"
	FileSkirtMass = "skirt_pointmass.csv"
	FileRNA       = "rna.csv"
)

func writeAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	return cw.WriteAll(records)
}

// WriteSegments writes a per-structure segment table in input shape.
func WriteSegments(w io.Writer, s structure.Structure) error {
	records := [][]string{{ColSection, ColTop, ColBottom, ColDTop, ColDBottom, ColThickness}}
	for _, seg := range s {
		records = append(records, []string{
			strconv.Itoa(seg.Section),
			formatFloat(seg.Top),
			formatFloat(seg.Bottom),
			formatFloat(seg.DTop),
			formatFloat(seg.DBottom),
			formatFloat(seg.Thickness),
		})
	}
	return writeAll(w, records)
}

// WriteMasses writes a per-structure added-mass table in input shape. Point
// masses leave the bottom cell blank.
func WriteMasses(w io.Writer, masses []structure.AddedMass) error {
	records := [][]string{{ColTop, ColBottom, ColMass, ColComment}}
	for _, m := range masses {
		bottom := ""
		if m.Bottom != nil {
			bottom = formatFloat(*m.Bottom)
		}
		records = append(records, []string{
			formatFloat(m.Top),
			bottom,
			formatFloat(m.Mass),
			m.Comment,
		})
	}
	return writeAll(w, records)
}

// WriteMeta writes a single-row structure metadata table.
func WriteMeta(w io.Writer, m structure.Meta) error {
	depth := ""
	if m.WaterDepth != nil {
		depth = formatFloat(*m.WaterDepth)
	}
	return writeAll(w, [][]string{
		{ColIdentifier, ColHeightRef, ColWaterDepth},
		{m.Identifier, m.HeightReference, depth},
	})
}

// WriteAssembled writes the assembled structure with its global and local
// section numbers.
func WriteAssembled(w io.Writer, rows []assembly.Row) error {
	records := [][]string{{ColSection, ColLocalSection, ColAffiliation, ColTop, ColBottom, ColDTop, ColDBottom, ColThickness}}
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.Section),
			strconv.Itoa(row.Local),
			string(row.Affiliation),
			formatFloat(row.Top),
			formatFloat(row.Bottom),
			formatFloat(row.DTop),
			formatFloat(row.DBottom),
			formatFloat(row.Thickness),
		})
	}
	return writeAll(w, records)
}

// WriteSkirt writes the extracted skirt segments. The skirt carries no
// section numbers; the rows live outside the assembled numbering.
func WriteSkirt(w io.Writer, s structure.Structure) error {
	records := [][]string{{ColAffiliation, ColTop, ColBottom, ColDTop, ColDBottom, ColThickness}}
	for _, seg := range s {
		records = append(records, []string{
			string(seg.Affiliation),
			formatFloat(seg.Top),
			formatFloat(seg.Bottom),
			formatFloat(seg.DTop),
			formatFloat(seg.DBottom),
			formatFloat(seg.Thickness),
		})
	}
	return writeAll(w, records)
}

// WriteSkirtMass writes the single aggregated skirt point mass.
func WriteSkirtMass(w io.Writer, m structure.AddedMass) error {
	return writeAll(w, [][]string{
		{ColAffiliation, ColElevation, ColMass, ColComment},
		{string(m.Affiliation), formatFloat(m.Top), formatFloat(m.Mass), m.Comment},
	})
}

// WriteAggregatedMasses writes the merged added-mass table.
func WriteAggregatedMasses(w io.Writer, masses []structure.AddedMass) error {
	records := [][]string{{ColAffiliation, ColTop, ColBottom, ColMass, ColComment}}
	for _, m := range masses {
		bottom := ""
		if m.Bottom != nil {
			bottom = formatFloat(*m.Bottom)
		}
		records = append(records, []string{
			string(m.Affiliation),
			formatFloat(m.Top),
			bottom,
			formatFloat(m.Mass),
			m.Comment,
		})
	}
	return writeAll(w, records)
}

// WriteOverview writes the assembled-structure metadata as parameter/value
// rows. Unresolved values stay blank.
func WriteOverview(w io.Writer, d assembly.Datum) error {
	seabed := ""
	if d.Seabed != nil {
		seabed = formatFloat(*d.Seabed)
	}
	return writeAll(w, [][]string{
		{ColParameter, ColValue},
		{"Height Reference", d.HeightReference},
		{"Seabed level", seabed},
	})
}

// WriteRNA writes the selected RNA as a single-row table.
func WriteRNA(w io.Writer, rna structure.RNA) error {
	return writeAll(w, [][]string{
		{ColIdentifier, ColMass, ColCogZ, ColComment},
		{rna.Identifier, formatFloat(rna.Mass), formatFloat(rna.CogZ), rna.Comment},
	})
}

// WriteResult writes all output tables of a successful run into dir,
// creating it if needed. The skirt tables appear only when a skirt was
// extracted, the RNA table only when one was selected.
func WriteResult(dir string, res *assembly.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name  string
		write func(io.Writer) error
		skip  bool
	}{
		{FileAssembled, func(w io.Writer) error { return WriteAssembled(w, res.Assembled) }, false},
		{FileOverview, func(w io.Writer) error { return WriteOverview(w, res.Datum) }, false},
		{FileMasses, func(w io.Writer) error { return WriteAggregatedMasses(w, res.Masses) }, false},
		{FileSkirt, func(w io.Writer) error { return WriteSkirt(w, res.Skirt) }, res.Skirt.Len() == 0},
		{FileSkirtMass, func(w io.Writer) error { return WriteSkirtMass(w, *res.SkirtMass) }, res.SkirtMass == nil},
		{FileRNA, func(w io.Writer) error { return WriteRNA(w, *res.RNA) }, res.RNA == nil},
	}

	for _, f := range files {
		if f.skip {
			continue
		}
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
