// Package store provides SQLite-backed persistence for schedule
// snapshots and their operation log.
//
// The engine itself is storage-free: it hands the store a validated
// snapshot after each applied operation, and the store writes it back
// atomically. Alongside the current snapshot the store keeps an
// append-only log of applied operations (name, arguments, resulting
// content hash) keyed by the engine's logical revision, so a shoot
// day's edit history can be audited or replayed.
//
// Ordering always uses the logical revision, never wall-clock time.
// Queries that return multiple rows order by a stable key tuple so
// results are identical across runs.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: referential integrity
package store
