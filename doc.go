// Package piperouting solves the 3D multi-pipe routing problem used in
// plant and industrial layout: given a rectangular volume, axis-aligned
// cuboidal obstacles, and a set of pipes (start, goal, diameter), it
// computes a collision-free axis-aligned route for every pipe while
// minimizing a weighted cost over length, bends, and elevated runs.
//
// The engine couples two search levels:
//
//	router/    — single-pipe best-first search on the voxel grid with a
//	             bend penalty, treating higher-priority pipes as obstacles
//	pbs/       — priority-based search over a conflict tree of priority
//	             orderings, re-invoking the router to repair conflicts
//
// Supporting packages:
//
//	env/       — voxelized environment: occupancy, obstacles, 6-neighbor
//	             expansion, scoped pipe mark/unmark
//	pipecost/  — pipe type, path length/bend accounting, cost model
//	plan/      — per-pipe path assignment and lexicographic quality order
//	priority/  — acyclic priority-constraint DAG (cycle check, topo order)
//	conflict/  — diameter-aware interference detection and selection
//	quality/   — plan comparison and aggregate metrics
//	fixorder/  — deterministic sequential baseline
//	loader/    — JSON instance parsing and result serialization
//
// The cmd/pipesolve binary wires everything behind a small CLI:
//
//	pipesolve --instance plant.json --algorithm PBS --seed 7
//
// All randomness is confined to conflict selection and driven by an
// explicit seed, so identically-parameterized runs reproduce exactly.
package piperouting
