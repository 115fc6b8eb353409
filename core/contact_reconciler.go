package core

import (
	"context"
	"fmt"
	"time"
)

// contactMatcher is one strategy for resolving an incoming event to a stored
// contact. Matchers run in order; the first hit wins.
type contactMatcher func(ctx context.Context, ev ContactEvent, candidate CreateContactInput) (Contact, bool, error)

func (e *Engine) contactMatchers() []contactMatcher {
	return []contactMatcher{
		e.matchContactByNormalizedPhone,
		e.matchContactByExternalID,
	}
}

func (e *Engine) matchContactByNormalizedPhone(ctx context.Context, _ ContactEvent, candidate CreateContactInput) (Contact, bool, error) {
	if candidate.NormalizedPhone == "" {
		return Contact{}, false, nil
	}
	return e.contactStore.FindByNormalizedPhone(ctx, candidate.NormalizedPhone)
}

func (e *Engine) matchContactByExternalID(ctx context.Context, ev ContactEvent, _ CreateContactInput) (Contact, bool, error) {
	if ev.ExternalID == 0 {
		return Contact{}, false, nil
	}
	return e.contactStore.FindByExternalID(ctx, ev.ExternalID)
}

// ReconcileContact matches one contact event against the store and creates
// or updates the record. Matching precedence: normalized phone first, then
// external id. An add that matches an existing contact fails with a conflict;
// an update that matches nothing creates the record, treating the update as
// an implicit add.
func (e *Engine) ReconcileContact(ctx context.Context, ev ContactEvent, kind EventKind) (Contact, error) {
	startedAt := time.Now()
	fields := map[string]any{
		"entity_kind": string(EntityKindContact),
		"event_kind":  string(kind),
		"external_id": ev.ExternalID,
	}

	contact, err := e.reconcileContact(ctx, ev, kind)
	e.observeOperation(ctx, startedAt, "contact_reconcile", err, fields)
	return contact, err
}

func (e *Engine) reconcileContact(ctx context.Context, ev ContactEvent, kind EventKind) (Contact, error) {
	if e == nil || e.contactStore == nil {
		return Contact{}, storeError(ErrStoreNotConfigured, "core: contact store is required", nil)
	}
	if err := kind.Validate(); err != nil {
		return Contact{}, badInputError(err.Error(), map[string]any{"event_kind": string(kind)})
	}

	phone := ExtractPhone(ev)
	candidate := CreateContactInput{
		ExternalID:      ev.ExternalID,
		Name:            ev.Name,
		Phone:           phone,
		NormalizedPhone: NormalizePhone(phone),
		Email:           ExtractEmail(ev),
		Company:         ev.Company,
		CreatedAt:       EventTime(ev.CreatedAt),
		UpdatedAt:       EventTime(ev.UpdatedAt),
	}

	var matched Contact
	found := false
	for _, matcher := range e.contactMatchers() {
		contact, ok, err := matcher(ctx, ev, candidate)
		if err != nil {
			return Contact{}, storeError(err, "core: contact lookup failed", map[string]any{
				"external_id": ev.ExternalID,
			})
		}
		if ok {
			matched = contact
			found = true
			break
		}
	}

	switch kind {
	case EventKindAdd:
		if found && e.contactPolicy.RejectDuplicateAdd {
			return Contact{}, conflictError(
				fmt.Sprintf("core: contact already exists for external id %d", ev.ExternalID),
				map[string]any{
					"external_id": ev.ExternalID,
					"matched_id":  matched.ID,
				},
			)
		}
		created, err := e.contactStore.Create(ctx, candidate)
		if err != nil {
			return Contact{}, storeError(err, "core: contact create failed", map[string]any{
				"external_id": ev.ExternalID,
			})
		}
		return created, nil
	default:
		if !found {
			if !e.contactPolicy.CreateOnUnmatchedUpdate {
				return Contact{}, badInputError(
					fmt.Sprintf("core: no contact matches external id %d", ev.ExternalID),
					map[string]any{"external_id": ev.ExternalID},
				)
			}
			created, err := e.contactStore.Create(ctx, candidate)
			if err != nil {
				return Contact{}, storeError(err, "core: contact create failed", map[string]any{
					"external_id": ev.ExternalID,
				})
			}
			return created, nil
		}

		updated, err := e.contactStore.Update(ctx, UpdateContactInput{
			ExternalID:      matched.ExternalID,
			Name:            candidate.Name,
			Phone:           candidate.Phone,
			NormalizedPhone: candidate.NormalizedPhone,
			Email:           candidate.Email,
			Company:         candidate.Company,
			UpdatedAt:       candidate.UpdatedAt,
		})
		if err != nil {
			return Contact{}, storeError(err, "core: contact update failed", map[string]any{
				"external_id": matched.ExternalID,
			})
		}
		return updated, nil
	}
}
