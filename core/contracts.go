package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// ContactStore persists contacts. Lookups return (zero, false, nil) when no
// record matches; an error is reserved for store failures.
type ContactStore interface {
	Create(ctx context.Context, in CreateContactInput) (Contact, error)
	Update(ctx context.Context, in UpdateContactInput) (Contact, error)
	FindByExternalID(ctx context.Context, externalID int64) (Contact, bool, error)
	FindByNormalizedPhone(ctx context.Context, normalizedPhone string) (Contact, bool, error)
	List(ctx context.Context, limit int) ([]Contact, error)
}

// DealStore persists deals.
type DealStore interface {
	Create(ctx context.Context, in CreateDealInput) (Deal, error)
	Update(ctx context.Context, in UpdateDealInput) (Deal, error)
	FindByExternalID(ctx context.Context, externalID int64) (Deal, bool, error)
	List(ctx context.Context, limit int) ([]Deal, error)
}

// LinkStore maintains the contact_deal junction.
type LinkStore interface {
	// Link inserts a single pair; an existing pair is a no-op, not an error.
	Link(ctx context.Context, contactID string, dealID string) error
	// Replace atomically swaps the link set of one deal for contactIDs:
	// delete every existing link, insert one per contact, all-or-nothing.
	Replace(ctx context.Context, dealID string, contactIDs []string) error
	// ListDealContacts returns the contacts currently linked to a deal.
	ListDealContacts(ctx context.Context, dealID string) ([]Contact, error)
}

// StoreProvider exposes the concrete stores a persistence adapter builds.
type StoreProvider interface {
	ContactStore() ContactStore
	DealStore() DealStore
	LinkStore() LinkStore
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// MetricsRecorder receives engine counters and latency observations.
type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
