// Package dedup implements the two-phase duplicate gate for candidate
// topics: exact in-batch collapse by identity tuple, then a per-candidate
// cosine-similarity check against the persistent store.
package dedup
