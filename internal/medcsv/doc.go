// Package medcsv converts free-text medication CSV into typed medication
// entries and back.
//
// The dialect is RFC 4180-ish with one deliberate narrowing: input is
// pre-split into lines on \r?\n before quote-aware field splitting runs, so
// a quoted field cannot span lines. Embedded newlines inside a quoted field
// are therefore unsupported. This matches the interchange format the rest of
// the system produces and is a documented limitation, not a bug.
//
// Parsing is lenient by policy:
//   - blank lines are dropped
//   - short rows (fewer than 6 fields) are skipped, never an error
//   - an empty medication name still produces a row
//
// Only a bad header is a validation error.
package medcsv
