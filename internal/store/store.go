// Package store implements the object-store worker-loop interface: the
// four key-prefix layout (chunks/, singleprocessing/, answers/,
// doubleprocessing/) and the optimistic-checkout semantics the CLI driver
// uses to pick work without any shared memory between workers.
package store

import (
	"context"

	"github.com/pkg/errors"

	"orthomine/internal/errtypes"
)

// Prefix names one of the four key spaces objects move through.
type Prefix string

const (
	PrefixChunks            Prefix = "chunks"
	PrefixSingleProcessing   Prefix = "singleprocessing"
	PrefixAnswers            Prefix = "answers"
	PrefixDoubleProcessing   Prefix = "doubleprocessing"
)

// Object is one stored value: its key (without prefix), payload, and size
// in bytes (used to pick smallest/largest candidates without decoding).
type Object struct {
	Key  string
	Data []byte
	Size int
}

// Store is the object-store surface the worker loop needs. Implementations
// must make CheckoutSmallestChunk and CheckoutLargestAndSmallestAnswer
// atomic with respect to other callers racing on the same prefix: a lost
// race wastes work but must never corrupt state.
type Store interface {
	// CheckoutSmallestChunk atomically moves the smallest chunks/ entry
	// (by serialized size) into singleprocessing/ and returns it. ok is
	// false if chunks/ is empty.
	CheckoutSmallestChunk(ctx context.Context) (obj Object, ok bool, err error)

	// CheckoutLargestAndSmallestAnswer atomically moves the largest and
	// smallest answers/ entries into doubleprocessing/ and returns both.
	// ok is false if fewer than two answers exist.
	CheckoutLargestAndSmallestAnswer(ctx context.Context) (largest, smallest Object, ok bool, err error)

	// SaveChunk writes obj under chunks/, the entry point for ingestion.
	SaveChunk(ctx context.Context, obj Object) error
	// SaveAnswer writes obj under answers/, the output of both
	// single_process and merge_process.
	SaveAnswer(ctx context.Context, obj Object) error

	// DeleteChunk removes key from singleprocessing/ once its answer has
	// been saved.
	DeleteChunk(ctx context.Context, key string) error
	// DeleteAnswer removes key from doubleprocessing/ once the merged
	// answer has been saved.
	DeleteAnswer(ctx context.Context, key string) error
	// DeleteLargestAnswer removes the largest current answers/ entry, for
	// the CLI's delete subcommand.
	DeleteLargestAnswer(ctx context.Context) (key string, ok bool, err error)

	// Dump returns the largest current answers/ entry without removing
	// it, for the CLI's get subcommand.
	Dump(ctx context.Context) (obj Object, ok bool, err error)
}

// ErrNoWork indicates a checkout found nothing to process. The worker loop
// treats this as a clean exit, not a failure.
var ErrNoWork = errors.New("store: no work available")

// wrapTransport annotates a transport-layer failure with a stack trace and
// the StoreUnavailable category, so an unattended worker crash leaves the
// operator a diagnosable error instead of a bare driver message.
func wrapTransport(context string, err error) error {
	if err == nil {
		return nil
	}
	return errtypes.Wrap(errtypes.StoreUnavailable, context, err)
}
