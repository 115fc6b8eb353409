package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidEventKind   = errors.New("core: invalid event kind")
	ErrMissingExternalID  = errors.New("core: event is missing an external id")
	ErrContactNotFound    = errors.New("core: contact not found")
	ErrDealNotFound       = errors.New("core: deal not found")
	ErrContactExists      = errors.New("core: contact already exists")
	ErrEmptyWebhookBatch  = errors.New("core: webhook batch has no contacts or leads")
	ErrInvalidEntityKind  = errors.New("core: invalid entity kind")
	ErrStoreNotConfigured = errors.New("core: store is not configured")
)

// EventKind distinguishes creation notifications from modification ones.
type EventKind string

const (
	EventKindAdd    EventKind = "add"
	EventKindUpdate EventKind = "update"
)

func (k EventKind) Validate() error {
	switch k {
	case EventKindAdd, EventKindUpdate:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidEventKind, string(k))
}

// EntityKind identifies which reconciler an event is routed to.
type EntityKind string

const (
	EntityKindContact EntityKind = "contact"
	EntityKindDeal    EntityKind = "deal"
)

func (k EntityKind) Validate() error {
	switch k {
	case EntityKindContact, EntityKindDeal:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidEntityKind, string(k))
}

// Contact is the stored representation of a CRM contact. ID is assigned by
// the local store on create and immutable afterwards; ExternalID is the
// upstream CRM identifier and the cross-system join key.
type Contact struct {
	ID              string
	ExternalID      int64
	Name            string
	Phone           string
	NormalizedPhone string
	Email           string
	Company         string
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

// Deal is the stored representation of a CRM lead/deal.
type Deal struct {
	ID         string
	ExternalID int64
	Title      string
	Status     string
	Price      *float64
	PipelineID *int64
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// ContactDealLink pairs one contact with one deal. For a given deal the link
// set is exactly the set last synced; sync is full replacement, never
// incremental.
type ContactDealLink struct {
	ContactID string
	DealID    string
}

// CustomFieldValue is a single value inside a webhook custom field.
type CustomFieldValue struct {
	Value string `json:"value"`
}

// CustomField is one entry of the heterogeneous custom-field list the CRM
// attaches to contact events. Code is a stable marker (PHONE, EMAIL); Name is
// the account-localized field label.
type CustomField struct {
	Code   string             `json:"code"`
	Name   string             `json:"name"`
	Values []CustomFieldValue `json:"values"`
}

// ContactEvent is a contact change notification as delivered by the CRM
// webhook payload.
type ContactEvent struct {
	ExternalID   int64         `json:"id"`
	Name         string        `json:"name"`
	Company      string        `json:"company_name"`
	CustomFields []CustomField `json:"custom_fields"`
	CreatedAt    int64         `json:"created_at"`
	UpdatedAt    int64         `json:"updated_at"`
}

// DealEvent is a lead/deal change notification. ContactExternalIDs, when
// present, is the full set of contacts the deal should be linked to.
type DealEvent struct {
	ExternalID         int64   `json:"id"`
	Name               string  `json:"name"`
	StatusID           int64   `json:"status_id"`
	Price              float64 `json:"price"`
	PipelineID         int64   `json:"pipeline_id"`
	ContactExternalIDs []int64 `json:"contacts"`
	CreatedAt          int64   `json:"created_at"`
	UpdatedAt          int64   `json:"updated_at"`
}

// EventGroup carries the per-kind entity arrays of one webhook group.
type EventGroup[T any] struct {
	Add    []T `json:"add"`
	Update []T `json:"update"`
}

// WebhookBatch is the ingress payload shape: optional contact and lead
// groups, each with optional add/update arrays.
type WebhookBatch struct {
	Contacts *EventGroup[ContactEvent] `json:"contacts"`
	Leads    *EventGroup[DealEvent]    `json:"leads"`
}

// Empty reports whether the batch carries neither contacts nor leads.
func (b WebhookBatch) Empty() bool {
	return b.Contacts == nil && b.Leads == nil
}

// CreateContactInput captures the fields the store needs to create a contact.
type CreateContactInput struct {
	ExternalID      int64
	Name            string
	Phone           string
	NormalizedPhone string
	Email           string
	Company         string
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

// UpdateContactInput captures the mutable contact fields. ExternalID selects
// the record and is itself immutable.
type UpdateContactInput struct {
	ExternalID      int64
	Name            string
	Phone           string
	NormalizedPhone string
	Email           string
	Company         string
	UpdatedAt       *time.Time
}

// CreateDealInput captures the fields the store needs to create a deal.
type CreateDealInput struct {
	ExternalID int64
	Title      string
	Status     string
	Price      *float64
	PipelineID *int64
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// UpdateDealInput captures the mutable deal fields keyed by external id.
type UpdateDealInput struct {
	ExternalID int64
	Title      string
	Status     string
	Price      *float64
	PipelineID *int64
	UpdatedAt  *time.Time
}

// FormatStatus renders an upstream status code the way the store persists it.
// Events without a status code yield the empty string.
func FormatStatus(statusID int64) string {
	if statusID == 0 {
		return ""
	}
	return fmt.Sprintf("%d", statusID)
}
