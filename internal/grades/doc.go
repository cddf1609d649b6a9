// Package grades holds the in-memory grade table and the two pieces of
// real logic behind the dashboard: the aggregator that derives subject
// finals and the grade average, and the missing-year backfill.
//
// # Data Flow
//
//	Source.Rows ──▶ ParseTable ──▶ [Backfill] ──▶ Aggregate ──▶ Dataset
//
// A Dataset is immutable once built. Refreshing the source produces a new
// Dataset which the Store swaps in atomically; readers keep using whatever
// snapshot they obtained from Store.Current.
//
// # Input Layout
//
// The first row is a header. "Name" and "Year" are required, "Image URL" is
// optional, and every column named "<Subject> Exam <n>" contributes an exam
// score. Cells that do not parse as numbers are treated as missing.
package grades
