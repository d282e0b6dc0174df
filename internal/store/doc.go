// Package store provides per-user persistence for health records.
//
// Two backends implement the same Store contract:
//   - SQLite: durable, single local database file
//   - Memory: volatile, for tests and for sessions where persistence is
//     unavailable
//
// The contract in both backends:
//   - Absence is a normal result: lookups return (value, ok, error) and
//     report ok=false with a nil error when no row exists. Callers supply
//     defaults.
//   - ReplaceMedications is atomic. Either every prior entry for the user is
//     removed and every new entry inserted, or the store is unchanged and
//     the failure is surfaced. No partial-write state is ever observable.
//   - A single logical session writes at a time; the store does not arbitrate
//     concurrent writers for the same user beyond that atomicity.
//
// Rows are validated into the typed shapes of internal/record at this
// boundary; nothing above the store sees raw rows.
package store
