// Package mode defines the tokenizer collaborator consumed by the
// document engine.
//
// A Mode turns one line of text at a time into styled tokens, threading
// an opaque state from line to line. The engine never inspects tokens or
// states; it caches the state reached after each line and invalidates
// that cache from the first line a change touches.
//
// Modes are looked up by name in a Registry. The package keeps a Default
// registry holding the built-in "null" mode, which produces no styles.
package mode
