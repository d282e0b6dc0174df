// Package record provides the typed health-record shapes shared by all
// careloop packages.
//
// This package contains type definitions only. All other internal packages
// import record; record imports nothing internal. This keeps the record
// shapes the foundational layer with no circular dependencies.
//
// Rows coming out of the store are validated into these types at the store
// boundary; nothing downstream handles loosely-typed rows.
package record
