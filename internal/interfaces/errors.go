package interfaces

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateURL indicates an enqueue was skipped because the URL
	// already has a queue item (dedup invariant)
	ErrDuplicateURL = errors.New("url already queued")

	// ErrNotClaimable indicates a conditional status transition found the
	// item in a different state than expected
	ErrNotClaimable = errors.New("item not in claimable status")

	// ErrMalformedResponse indicates the model response was not parseable
	// as JSON
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrSchemaViolation indicates the model response parsed as JSON but
	// did not conform to the extraction schema
	ErrSchemaViolation = errors.New("extraction schema violation")

	// ErrTerminalStatus indicates an operation was attempted on an item in
	// a terminal status (published or rejected)
	ErrTerminalStatus = errors.New("item is in a terminal status")
)
