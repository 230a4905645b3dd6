// Package textproc provides pure text preparation functions for the
// processing pipeline:
//
//   - Recover repairs Cyrillic text that was decoded under the wrong
//     single-byte code page (mojibake).
//   - Normalize cleans whitespace and pagination artifacts from extracted
//     text, with a safety valve against over-aggressive stripping.
//   - Chunk splits text into sentence-aware pieces of a target size.
//
// All functions are deterministic and stateless; running them twice on the
// same input yields the same output.
package textproc
