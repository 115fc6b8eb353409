package inbound

import (
	"context"
	"fmt"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-crm-sync/core"
)

type fakeReconciler struct {
	mu           sync.Mutex
	contactCalls []reconcileCall
	dealCalls    []reconcileCall

	failContactID int64
	failDealID    int64
}

type reconcileCall struct {
	externalID int64
	kind       core.EventKind
}

func (f *fakeReconciler) ReconcileContact(_ context.Context, ev core.ContactEvent, kind core.EventKind) (core.Contact, error) {
	f.mu.Lock()
	f.contactCalls = append(f.contactCalls, reconcileCall{externalID: ev.ExternalID, kind: kind})
	f.mu.Unlock()
	if f.failContactID != 0 && ev.ExternalID == f.failContactID {
		return core.Contact{}, fmt.Errorf("contact %d blew up", ev.ExternalID)
	}
	return core.Contact{ID: fmt.Sprintf("contact-%d", ev.ExternalID), ExternalID: ev.ExternalID}, nil
}

func (f *fakeReconciler) ReconcileDeal(_ context.Context, ev core.DealEvent, kind core.EventKind) (core.Deal, error) {
	f.mu.Lock()
	f.dealCalls = append(f.dealCalls, reconcileCall{externalID: ev.ExternalID, kind: kind})
	f.mu.Unlock()
	if f.failDealID != 0 && ev.ExternalID == f.failDealID {
		return core.Deal{}, fmt.Errorf("deal %d blew up", ev.ExternalID)
	}
	return core.Deal{ID: fmt.Sprintf("deal-%d", ev.ExternalID), ExternalID: ev.ExternalID}, nil
}

func (f *fakeReconciler) calls() (contacts []reconcileCall, deals []reconcileCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contacts = append(contacts, f.contactCalls...)
	deals = append(deals, f.dealCalls...)
	return contacts, deals
}

func TestNewDispatcher_RequiresReconciler(t *testing.T) {
	if _, err := NewDispatcher(nil); err == nil {
		t.Fatalf("expected error for nil reconciler")
	}
}

func TestDispatch_RejectsEmptyBatch(t *testing.T) {
	dispatcher, err := NewDispatcher(&fakeReconciler{})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	_, err = dispatcher.Dispatch(context.Background(), core.WebhookBatch{})
	if err == nil {
		t.Fatalf("expected empty batch rejection")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if richErr.Category != goerrors.CategoryBadInput {
		t.Fatalf("expected bad input category, got %v", richErr.Category)
	}
	if richErr.TextCode != core.CRMSyncErrorBadInput {
		t.Fatalf("expected %q text code, got %q", core.CRMSyncErrorBadInput, richErr.TextCode)
	}
}

func TestDispatch_FansOutAllGroups(t *testing.T) {
	reconciler := &fakeReconciler{}
	dispatcher, err := NewDispatcher(reconciler)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	batch := core.WebhookBatch{
		Contacts: &core.EventGroup[core.ContactEvent]{
			Add:    []core.ContactEvent{{ExternalID: 1}},
			Update: []core.ContactEvent{{ExternalID: 2}},
		},
		Leads: &core.EventGroup[core.DealEvent]{
			Add:    []core.DealEvent{{ExternalID: 10}},
			Update: []core.DealEvent{{ExternalID: 11}},
		},
	}

	result, err := dispatcher.Dispatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("expected batch accepted")
	}
	if len(result.Outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(result.Outcomes))
	}
	if failed := result.Failed(); len(failed) != 0 {
		t.Fatalf("expected no failures, got %d", len(failed))
	}

	contacts, deals := reconciler.calls()
	if len(contacts) != 2 || len(deals) != 2 {
		t.Fatalf("expected 2 contact and 2 deal calls, got %d and %d", len(contacts), len(deals))
	}
	kindsByID := map[int64]core.EventKind{}
	for _, call := range contacts {
		kindsByID[call.externalID] = call.kind
	}
	for _, call := range deals {
		kindsByID[call.externalID] = call.kind
	}
	if kindsByID[1] != core.EventKindAdd || kindsByID[10] != core.EventKindAdd {
		t.Fatalf("expected add kind for entities 1 and 10, got %v", kindsByID)
	}
	if kindsByID[2] != core.EventKindUpdate || kindsByID[11] != core.EventKindUpdate {
		t.Fatalf("expected update kind for entities 2 and 11, got %v", kindsByID)
	}
}

func TestDispatch_OneFailureDoesNotBlockSiblings(t *testing.T) {
	reconciler := &fakeReconciler{failContactID: 2}
	dispatcher, err := NewDispatcher(reconciler)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	batch := core.WebhookBatch{
		Contacts: &core.EventGroup[core.ContactEvent]{
			Add: []core.ContactEvent{{ExternalID: 1}, {ExternalID: 2}, {ExternalID: 3}, {ExternalID: 4}},
		},
	}

	result, err := dispatcher.Dispatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("expected batch accepted despite entity failure")
	}
	if len(result.Outcomes) != 4 {
		t.Fatalf("expected all 4 entities attempted, got %d outcomes", len(result.Outcomes))
	}

	failed := result.Failed()
	if len(failed) != 1 {
		t.Fatalf("expected exactly 1 failed outcome, got %d", len(failed))
	}
	if failed[0].ExternalID != 2 {
		t.Fatalf("expected entity 2 to fail, got %d", failed[0].ExternalID)
	}
	if failed[0].Entity != core.EntityKindContact || failed[0].Event != core.EventKindAdd {
		t.Fatalf("unexpected failed outcome: %+v", failed[0])
	}

	contacts, _ := reconciler.calls()
	if len(contacts) != 4 {
		t.Fatalf("expected all 4 contacts attempted, got %d", len(contacts))
	}
}

func TestDispatch_SkipsEntitiesWithoutExternalID(t *testing.T) {
	reconciler := &fakeReconciler{}
	dispatcher, err := NewDispatcher(reconciler)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	batch := core.WebhookBatch{
		Contacts: &core.EventGroup[core.ContactEvent]{
			Add: []core.ContactEvent{{ExternalID: 0, Name: "No ID"}, {ExternalID: 5}},
		},
		Leads: &core.EventGroup[core.DealEvent]{
			Update: []core.DealEvent{{ExternalID: 0, Name: "No ID"}},
		},
	}

	result, err := dispatcher.Dispatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected only the identified entity attempted, got %d outcomes", len(result.Outcomes))
	}
	if result.Outcomes[0].ExternalID != 5 {
		t.Fatalf("expected entity 5 attempted, got %d", result.Outcomes[0].ExternalID)
	}

	contacts, deals := reconciler.calls()
	if len(contacts) != 1 || len(deals) != 0 {
		t.Fatalf("expected 1 contact call and 0 deal calls, got %d and %d", len(contacts), len(deals))
	}
}

func TestDispatch_DealFailureCapturedInOutcome(t *testing.T) {
	reconciler := &fakeReconciler{failDealID: 20}
	dispatcher, err := NewDispatcher(reconciler)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	batch := core.WebhookBatch{
		Leads: &core.EventGroup[core.DealEvent]{
			Add: []core.DealEvent{{ExternalID: 20}, {ExternalID: 21}},
		},
	}

	result, err := dispatcher.Dispatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	failed := result.Failed()
	if len(failed) != 1 || failed[0].ExternalID != 20 || failed[0].Entity != core.EntityKindDeal {
		t.Fatalf("expected deal 20 failure outcome, got %+v", failed)
	}
}
