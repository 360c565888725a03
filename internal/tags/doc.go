// Package tags turns raw tag strings into caption text.
//
// The pieces are applied in this order by both front ends:
//
//   - ignore-pattern filtering ([ShouldIgnore]) and per-category display
//     normalization ([Normalizer]);
//   - category aggregation in a fixed order ([Aggregate]);
//   - the join policy ([Join], [AppendCaption]) or, for structured records,
//     template substitution ([Render]) followed by [Cleanup].
package tags
