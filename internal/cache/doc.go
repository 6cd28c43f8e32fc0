// Package cache persists translations per (document, language) pair. Keys are
// content hashes of the source text and target language, so cache files
// written by one run are reused by the next.
package cache
