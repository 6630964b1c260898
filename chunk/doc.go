// Package chunk splits normalized text into token-bounded, sentence-aware
// chunks for topic extraction.
package chunk
