// Package pptx reads the text of PowerPoint (.pptx) decks and writes
// translated text back in place.
//
// A deck is kept as its original zip container plus the parsed XML tree of
// every slide part. Units returns the translatable text of the deck as
// ParagraphUnit and TableCellUnit values in slide and shape order; Apply
// writes replacement text back onto them and Save re-serialises only the
// slide parts, copying every other entry unchanged.
package pptx
