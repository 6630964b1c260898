package capsule

import "github.com/poiesic/capsule/core"

// Status classifies the overall outcome of a facade operation.
type Status string

const (
	// StatusSuccess means the operation completed without failures.
	StatusSuccess Status = "success"

	// StatusError means the operation failed before producing results,
	// e.g. content normalization failed.
	StatusError Status = "error"

	// StatusSimilarFound means at least one topic was rejected because a
	// similar topic already exists in the store.
	StatusSimilarFound Status = "similar_topics_found"

	// StatusPartialError means some items of a batch succeeded and some
	// failed.
	StatusPartialError Status = "partial_error"
)

// ProcessResult is the outcome of ProcessInput: the deduplicated candidate
// topics extracted from one input, ready for user selection.
type ProcessResult struct {
	Topics  []core.Topic
	Message string
	Status  Status
}

// StoreResult is the outcome of StoreSelectedTopics. Each input topic lands
// either in SuccessfulTopics or as an entry in FailedMessages; a similarity
// rejection is reported as a message, not an error.
type StoreResult struct {
	SuccessfulTopics []core.Topic
	FailedMessages   []string
	Status           Status
}

// RejectResult is the outcome of RejectTopics.
type RejectResult struct {
	SuccessfulMessages []string
	FailedMessages     []string
	Status             Status
}
