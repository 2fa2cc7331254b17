// Package sqids turns lists of non-negative integers into short, reversible
// string identifiers and back.
//
// Identifiers have the following properties:
//   - reversible given the same Options (no state is stored anywhere)
//   - deterministic across processes and platforms
//   - free of words from a configurable blocklist
//   - padded up to a configurable minimum length
//
// Identifiers are obfuscated, not encrypted. Never use them where
// unguessability matters.
package sqids
