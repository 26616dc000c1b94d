// Package store provides SQLite-backed storage for scenario run history.
//
// Two tables are kept:
//   - runs: one row per scenario run (id, scenario, pass, step counts)
//   - outcomes: one row per evaluated step, keyed by (run_id, step_index)
//
// Runs are ordered by an autoincrement seq column, never by recorded_at, so
// history listings are stable when runs share a timestamp.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Wait for locks up to 5 seconds (see WithBusyTimeout)
//   - foreign_keys=ON: Enforce referential integrity
//
// Step arguments are stored as JSON text with HTML escaping disabled.
package store
