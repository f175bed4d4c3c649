// Package sqlite persists the planning catalog in a single SQLite file using
// modernc.org/sqlite, so the binary builds without CGO.
//
// Items, technical lists, BOM edges and production orders each get a table.
// Decimal quantities are stored as text to keep their exact value, and BOM
// edges keep their creation order in the sequence column. The schema lives in
// numbered migrations under migrations/.
package sqlite
