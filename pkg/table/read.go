package table

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// readRecords loads all CSV records and splits off the header row.
func readRecords(r io.Reader, name string) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidData, err, "%s: malformed CSV", name)
	}
	if len(records) == 0 {
		return nil, nil, errs.New(errs.ErrCodeInvalidData, "%s: table is empty", name)
	}
	return records[0], records[1:], nil
}

// ReadSegments parses a segment table. The name labels error messages, e.g.
// "MP_DATA".
func ReadSegments(r io.Reader, name string) (structure.Structure, error) {
	header, rows, err := readRecords(r, name)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)
	if err := requireColumns(idx, name, ColSection, ColTop, ColBottom, ColDTop, ColDBottom, ColThickness); err != nil {
		return nil, err
	}

	out := make(structure.Structure, 0, len(rows))
	for i, rec := range rows {
		n := i + 1
		sec, err := parseInt(rec[idx[ColSection]], name, n, ColSection)
		if err != nil {
			return nil, err
		}
		seg := structure.Segment{Section: sec}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{ColTop, &seg.Top},
			{ColBottom, &seg.Bottom},
			{ColDTop, &seg.DTop},
			{ColDBottom, &seg.DBottom},
			{ColThickness, &seg.Thickness},
		} {
			v, err := parseFloat(rec[idx[f.col]], name, n, f.col)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		out = append(out, seg)
	}
	return out, nil
}

// ReadMasses parses an added-mass table. A blank or non-numeric bottom cell
// makes the row a point mass; top and mass must always parse.
func ReadMasses(r io.Reader, name string) ([]structure.AddedMass, error) {
	header, rows, err := readRecords(r, name)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)
	if err := requireColumns(idx, name, ColTop, ColBottom, ColMass); err != nil {
		return nil, err
	}
	_, hasComment := idx[ColComment]

	out := make([]structure.AddedMass, 0, len(rows))
	for i, rec := range rows {
		n := i + 1
		m := structure.AddedMass{}

		if m.Top, err = parseFloat(rec[idx[ColTop]], name, n, ColTop); err != nil {
			return nil, err
		}
		if m.Mass, err = parseFloat(rec[idx[ColMass]], name, n, ColMass); err != nil {
			return nil, err
		}
		if b, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[ColBottom]]), 64); err == nil {
			m.Bottom = &b
		}
		if hasComment {
			m.Comment = strings.TrimSpace(rec[idx[ColComment]])
		}
		out = append(out, m)
	}
	return out, nil
}

// ReadMeta parses a single-row structure metadata table. The identifier and
// height reference may be empty; the water depth is nil when blank.
func ReadMeta(r io.Reader, name string) (structure.Meta, error) {
	header, rows, err := readRecords(r, name)
	if err != nil {
		return structure.Meta{}, err
	}
	idx := columnIndex(header)
	if err := requireColumns(idx, name, ColIdentifier, ColHeightRef, ColWaterDepth); err != nil {
		return structure.Meta{}, err
	}
	if len(rows) != 1 {
		return structure.Meta{}, errs.New(errs.ErrCodeInvalidData,
			"%s: expected a single metadata row, got %d", name, len(rows))
	}

	rec := rows[0]
	m := structure.Meta{
		Identifier:      strings.TrimSpace(rec[idx[ColIdentifier]]),
		HeightReference: strings.TrimSpace(rec[idx[ColHeightRef]]),
	}
	if cell := strings.TrimSpace(rec[idx[ColWaterDepth]]); cell != "" {
		depth, err := parseFloat(cell, name, 1, ColWaterDepth)
		if err != nil {
			return structure.Meta{}, err
		}
		m.WaterDepth = &depth
	}
	return m, nil
}

// ReadRNACatalog parses the RNA catalog table.
func ReadRNACatalog(r io.Reader, name string) ([]structure.RNA, error) {
	header, rows, err := readRecords(r, name)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)
	if err := requireColumns(idx, name, ColIdentifier, ColMass, ColCogZ); err != nil {
		return nil, err
	}
	_, hasComment := idx[ColComment]

	out := make([]structure.RNA, 0, len(rows))
	for i, rec := range rows {
		n := i + 1
		rna := structure.RNA{Identifier: strings.TrimSpace(rec[idx[ColIdentifier]])}
		if rna.Identifier == "" {
			return nil, errs.New(errs.ErrCodeInvalidData, "%s row %d: empty identifier", name, n)
		}
		if rna.Mass, err = parseFloat(rec[idx[ColMass]], name, n, ColMass); err != nil {
			return nil, err
		}
		if rna.CogZ, err = parseFloat(rec[idx[ColCogZ]], name, n, ColCogZ); err != nil {
			return nil, err
		}
		if hasComment {
			rna.Comment = strings.TrimSpace(rec[idx[ColComment]])
		}
		out = append(out, rna)
	}
	return out, nil
}

// LoadSegments reads a segment table from a file, labeling errors with the
// file's base name.
func LoadSegments(path string) (structure.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSegments(f, filepath.Base(path))
}

// LoadMasses reads an added-mass table from a file.
func LoadMasses(path string) ([]structure.AddedMass, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMasses(f, filepath.Base(path))
}

// LoadMeta reads a metadata table from a file.
func LoadMeta(path string) (structure.Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return structure.Meta{}, err
	}
	defer f.Close()
	return ReadMeta(f, filepath.Base(path))
}

// LoadRNACatalog reads the RNA catalog from a file.
func LoadRNACatalog(path string) ([]structure.RNA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRNACatalog(f, filepath.Base(path))
}

// LoadBundle assembles one structure's input from its segment table plus
// optional mass and metadata tables (empty paths skip the part).
func LoadBundle(segPath, massPath, metaPath string) (structure.Bundle, error) {
	var b structure.Bundle
	var err error

	if b.Segments, err = LoadSegments(segPath); err != nil {
		return structure.Bundle{}, err
	}
	if massPath != "" {
		if b.Masses, err = LoadMasses(massPath); err != nil {
			return structure.Bundle{}, err
		}
	}
	if metaPath != "" {
		if b.Meta, err = LoadMeta(metaPath); err != nil {
			return structure.Bundle{}, err
		}
	}
	return b, nil
}
