// Package store provides the SQL record store of members and their salaries.
//
// Two drivers are supported:
//   - sqlite3 (github.com/mattn/go-sqlite3): the default, a single file
//   - mysql (github.com/go-sql-driver/mysql): the production deployment
//
// Queries are built with go-sqlbuilder in the flavor of the driver, so the
// same QueryIR runs on both. Every query is parameterized.
//
// # Schema
//
//	members(id, email, name, birthdate, gender)
//	salaries(id, member_id → members.id, salary, job_title, state, level_of_education)
//
// A member has at most one salary (UNIQUE member_id). Birthdates are civil
// dates: TEXT 'YYYY-MM-DD' on SQLite, DATE on MySQL. Both compare correctly
// against 'YYYY-MM-DD' parameters.
//
// The schema is applied on Open and is idempotent. SQLite databases track
// migrations in PRAGMA user_version.
//
// # Reads
//
// ReadSalaries runs inside one read-only transaction, so every row of a
// query comes from the same snapshot.
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
