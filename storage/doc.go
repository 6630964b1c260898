// Package storage defines the persistent vector-store contract for topics
// and the serialization helpers shared by its implementations.
package storage
