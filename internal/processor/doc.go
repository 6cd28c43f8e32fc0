// Package processor drives the translation of whole presentations. For
// each deck it opens the file, extracts its text units, loads the
// per-deck translation cache, translates the texts in order, writes them
// back, saves the translated copy and persists the cache. A failing deck
// is reported and the remaining decks of the run are still processed.
package processor
