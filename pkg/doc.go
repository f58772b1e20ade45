// Package pkg provides the core libraries for GeometrieConverter support
// structure assembly.
//
// # Overview
//
// GeometrieConverter merges the monopile (MP), transition piece (TP) and
// tower of an offshore wind support structure into one continuous section
// table. The pkg directory is organized into four main areas:
//
//  1. [structure] / [frustum] - Domain model (segments, bundles, cone geometry)
//  2. [assembly] - The assembly engine (reconcile, classify, align, merge)
//  3. [table] / [storage] - Interchange and persistence (CSV tables, SQLite library)
//  4. [render/profile] - Visualization (SVG elevation drawings)
//
// # Architecture
//
// The typical data flow through GeometrieConverter:
//
//	CSV tables / structure library
//	         ↓
//	    [structure] package (segments, metadata, added masses)
//	         ↓
//	    [assembly] package (datum reconciliation, junction handling, renumbering)
//	         ↓
//	    [table] / [render/profile] output (CSV reports, SVG elevation)
//
// # Quick Start
//
// Load three structures and assemble them:
//
//	import (
//	    "context"
//	    "github.com/AaronLge/GeometrieConverter/pkg/assembly"
//	    "github.com/AaronLge/GeometrieConverter/pkg/table"
//	)
//
//	// 1. Load the structure tables
//	mp, _ := table.LoadBundle("mp.csv", "mp_masses.csv", "mp_meta.csv")
//	tp, _ := table.LoadBundle("tp.csv", "tp_masses.csv", "tp_meta.csv")
//	tower, _ := table.LoadBundle("tower.csv", "", "tower_meta.csv")
//
//	// 2. Run the assembly
//	res, _ := assembly.NewRunner(nil).Execute(context.Background(),
//	    assembly.Inputs{MP: mp, TP: tp, Tower: tower},
//	    assembly.Options{OverlapMode: assembly.OverlapSkirt},
//	)
//
//	// 3. Write the reports
//	_ = table.WriteResult("out", res)
//
// # Main Packages
//
// ## Domain Model
//
// [structure] - Conical segment tables with role affiliation, bundle metadata
// (identifier, height reference, water depth), added point and line masses,
// and rotor-nacelle assemblies.
//
// [frustum] - Geometry of a conical frustum shell: wall volume, lateral
// surface area, and linear diameter interpolation between two elevations.
//
// ## Assembly Engine
//
// [assembly] - The validate → reconcile → junction → align → assemble
// pipeline. Classifies the MP/TP junction as gap, flush or overlap, extracts
// skirt segments, shifts the tower onto the TP top, renumbers sections and
// aggregates masses. Interactive decisions are injected through a callback
// so CLI and HTTP API share one engine.
//
// ## Interchange and Persistence
//
// [table] - CSV readers and writers for segment, mass, meta and RNA tables,
// plus the assembled report set ([table.WriteResult]).
//
// [storage] - SQLite structure library keyed by role and identifier, used by
// the CLI database commands and the HTTP API.
//
// ## Visualization
//
// [render/profile] - Scaled SVG elevation drawings of an assembly result:
// outlines per role, waterline and seabed, skirt hatching, mass markers.
//
// ## Shared
//
// [errors] - Coded errors shared by the CLI and the HTTP API so every
// failure carries a stable machine-readable code.
//
// [buildinfo] - Version metadata stamped at build time.
//
// The internal/cli and internal/api packages consume these libraries; both
// front the same [assembly.Runner].
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/assembly/... # Specific package
//	go test -run Example       # Examples only
//
// [structure]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/structure
// [frustum]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/frustum
// [assembly]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/assembly
// [table]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/table
// [storage]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/storage
// [render/profile]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/render/profile
// [errors]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/AaronLge/GeometrieConverter/pkg/buildinfo
package pkg
