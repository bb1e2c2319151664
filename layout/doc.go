// Package layout packs running text into fixed-height columns.
//
// Text is split into sentences, sentences are grouped into paragraphs, and
// words are added to a column for as long as the measured height of the
// column's paragraphs fits the viewport. Measurement uses font metrics
// instead of a browser, so the server can send the finished columns.
package layout
