package core

import (
	"context"
	"time"
)

// ReconcileDeal matches one deal event against the store and creates or
// updates the record. Adds always create (the deal policy accepts
// duplicates); updates look up by external id and fall back to create when
// nothing matches. When the event carries contact external ids the deal's
// link set is synced as a side effect; a sync failure surfaces as the call's
// error, after the deal itself has been saved.
func (e *Engine) ReconcileDeal(ctx context.Context, ev DealEvent, kind EventKind) (Deal, error) {
	startedAt := time.Now()
	fields := map[string]any{
		"entity_kind": string(EntityKindDeal),
		"event_kind":  string(kind),
		"external_id": ev.ExternalID,
	}

	deal, err := e.reconcileDeal(ctx, ev, kind)
	e.observeOperation(ctx, startedAt, "deal_reconcile", err, fields)
	return deal, err
}

func (e *Engine) reconcileDeal(ctx context.Context, ev DealEvent, kind EventKind) (Deal, error) {
	if e == nil || e.dealStore == nil {
		return Deal{}, storeError(ErrStoreNotConfigured, "core: deal store is required", nil)
	}
	if err := kind.Validate(); err != nil {
		return Deal{}, badInputError(err.Error(), map[string]any{"event_kind": string(kind)})
	}

	candidate := CreateDealInput{
		ExternalID: ev.ExternalID,
		Title:      ev.Name,
		Status:     FormatStatus(ev.StatusID),
		Price:      dealPrice(ev.Price),
		PipelineID: dealPipeline(ev.PipelineID),
		CreatedAt:  EventTime(ev.CreatedAt),
		UpdatedAt:  EventTime(ev.UpdatedAt),
	}

	saved, err := e.saveDeal(ctx, ev, kind, candidate)
	if err != nil {
		return Deal{}, err
	}

	if saved.ID != "" && len(ev.ContactExternalIDs) > 0 {
		if syncErr := e.SyncDealContacts(ctx, saved.ID, ev.ContactExternalIDs); syncErr != nil {
			return Deal{}, syncErr
		}
	}
	return saved, nil
}

func (e *Engine) saveDeal(ctx context.Context, ev DealEvent, kind EventKind, candidate CreateDealInput) (Deal, error) {
	if kind == EventKindAdd {
		if e.dealPolicy.RejectDuplicateAdd {
			_, found, err := e.dealStore.FindByExternalID(ctx, ev.ExternalID)
			if err != nil {
				return Deal{}, storeError(err, "core: deal lookup failed", map[string]any{
					"external_id": ev.ExternalID,
				})
			}
			if found {
				return Deal{}, conflictError("core: deal already exists", map[string]any{
					"external_id": ev.ExternalID,
				})
			}
		}
		created, err := e.dealStore.Create(ctx, candidate)
		if err != nil {
			return Deal{}, storeError(err, "core: deal create failed", map[string]any{
				"external_id": ev.ExternalID,
			})
		}
		return created, nil
	}

	var existing Deal
	found := false
	if ev.ExternalID != 0 {
		var err error
		existing, found, err = e.dealStore.FindByExternalID(ctx, ev.ExternalID)
		if err != nil {
			return Deal{}, storeError(err, "core: deal lookup failed", map[string]any{
				"external_id": ev.ExternalID,
			})
		}
	}

	if !found {
		created, err := e.dealStore.Create(ctx, candidate)
		if err != nil {
			return Deal{}, storeError(err, "core: deal create failed", map[string]any{
				"external_id": ev.ExternalID,
			})
		}
		return created, nil
	}

	updated, err := e.dealStore.Update(ctx, UpdateDealInput{
		ExternalID: existing.ExternalID,
		Title:      candidate.Title,
		Status:     candidate.Status,
		Price:      candidate.Price,
		PipelineID: candidate.PipelineID,
		UpdatedAt:  candidate.UpdatedAt,
	})
	if err != nil {
		return Deal{}, storeError(err, "core: deal update failed", map[string]any{
			"external_id": existing.ExternalID,
		})
	}
	return updated, nil
}

// SyncDealContacts resolves the external contact ids to internal ids and
// atomically replaces the deal's link set. Duplicate external ids collapse
// to one link. Unresolvable ids are logged at warn level and skipped. An
// empty resolved set leaves the existing links untouched: an empty signal
// never destroys state.
func (e *Engine) SyncDealContacts(ctx context.Context, dealID string, contactExternalIDs []int64) error {
	startedAt := time.Now()
	fields := map[string]any{
		"deal_id":     dealID,
		"requested":   len(contactExternalIDs),
		"entity_kind": string(EntityKindDeal),
	}

	err := e.syncDealContacts(ctx, dealID, contactExternalIDs)
	e.observeOperation(ctx, startedAt, "deal_contacts_sync", err, fields)
	return err
}

func (e *Engine) syncDealContacts(ctx context.Context, dealID string, contactExternalIDs []int64) error {
	if e == nil || e.contactStore == nil || e.linkStore == nil {
		return storeError(ErrStoreNotConfigured, "core: contact and link stores are required", nil)
	}

	seen := make(map[int64]struct{}, len(contactExternalIDs))
	contactIDs := make([]string, 0, len(contactExternalIDs))
	for _, externalID := range contactExternalIDs {
		if _, dup := seen[externalID]; dup {
			continue
		}
		seen[externalID] = struct{}{}
		contact, found, err := e.contactStore.FindByExternalID(ctx, externalID)
		if err != nil {
			return storeError(err, "core: contact resolution failed", map[string]any{
				"deal_id":     dealID,
				"external_id": externalID,
			})
		}
		if !found {
			e.logWarn(ctx, "contact not found during deal sync", map[string]any{
				"deal_id":     dealID,
				"external_id": externalID,
			})
			continue
		}
		contactIDs = append(contactIDs, contact.ID)
	}

	if len(contactIDs) == 0 {
		return nil
	}

	e.dealLocks.Lock(dealID)
	defer e.dealLocks.Unlock(dealID)

	if err := e.linkStore.Replace(ctx, dealID, contactIDs); err != nil {
		return storeError(err, "core: deal contact link replacement failed", map[string]any{
			"deal_id":  dealID,
			"resolved": len(contactIDs),
		})
	}
	return nil
}

func dealPrice(price float64) *float64 {
	if price == 0 {
		return nil
	}
	value := price
	return &value
}

func dealPipeline(pipelineID int64) *int64 {
	if pipelineID == 0 {
		return nil
	}
	value := pipelineID
	return &value
}
