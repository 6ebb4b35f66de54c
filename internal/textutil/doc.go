// Package textutil provides the name normalization primitives used when
// matching external metadata against the local catalog.
//
// The primary use cases are:
//   - Deriving canonical comparison keys for tag and studio names
//   - Canonicalizing tag spellings before creation
//   - Scrubbing release tags out of filenames before querying
//
// Normalization folds case, strips punctuation and parentheses, drops a fixed
// set of orientation/position stop words, and collapses whitespace. Matching
// is always done on normalized forms, never on raw strings.
package textutil
