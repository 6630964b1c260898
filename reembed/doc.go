// Package reembed regenerates the name embeddings of all stored topics,
// used after an embedding model change to keep similarity search coherent.
package reembed
