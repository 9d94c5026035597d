// Package extraction provides heuristic field extraction from chunk text
// using configurable regex patterns with per-field confidence scoring.
//
// Each field is described by a FieldSpec: a list of weighted patterns tried
// in order, optional keywords that boost confidence when present in the
// match, and the shared numeric-data boost. The resulting confidence is
// capped below 1 so heuristic extraction never outranks an exact answer.
//
// The extracted confidences feed the confidence scorer's field term when a
// query answer overlaps an extracted field.
package extraction
