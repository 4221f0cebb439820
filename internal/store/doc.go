// Package store provides SQLite-backed run history.
//
// Every stored run keeps its parameters, its seed and its full per-step
// output, so any run can be re-simulated and checked for byte-identical
// reproduction.
//
// # Tables
//
//   - runs: one row per shower, keyed by a UUIDv7 id and grouped by batch
//   - run_steps: per-generation deposit and population of each run
//
// # Ordering
//
// Batch ids are UUIDv7, so they sort by creation time. All listing queries
// use ORDER BY batch_id ASC, seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Parameters are stored as canonical JSON; params_hash and result_hash are
// computed by internal/canon with domain separation.
package store
