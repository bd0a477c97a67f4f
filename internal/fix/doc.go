// Package fix applies rule fixes to source files.
//
// Fix functions rewrite the whole file text. ApplyFixes is the pure core;
// Apply adds reading, writing and the applied/skipped bookkeeping the CLI
// reports. Apply re-parses the text after every rule with the file's
// adapter and rolls back a rule whose patch no longer parses.
package fix
