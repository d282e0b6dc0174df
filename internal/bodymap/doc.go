// Package bodymap holds the static body-system reference data and the pure
// medication-to-system mapper.
//
// The reference tables (body systems with normalized render coordinates and
// colors, medication-to-system links, lab test reference ranges) are
// embedded YAML validated against an embedded CUE schema at load time. They
// are read-only; nothing mutates them at runtime.
//
// Name lookups are case-insensitive on trimmed, NFC-normalized names, so
// "Metformin", " metformin " and a decomposed-Unicode spelling all hit the
// same row.
package bodymap
