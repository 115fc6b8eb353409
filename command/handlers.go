package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-crm-sync/core"
	"github.com/goliatone/go-crm-sync/inbound"
)

// BatchDispatcher accepts a decoded webhook batch and returns per-entity
// outcomes.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, batch core.WebhookBatch) (inbound.BatchResult, error)
}

// LinkSyncer rewrites the contact set of a deal.
type LinkSyncer interface {
	SyncDealContacts(ctx context.Context, dealID string, contactExternalIDs []int64) error
}

type ProcessWebhookBatchCommand struct {
	dispatcher BatchDispatcher
}

func NewProcessWebhookBatchCommand(dispatcher BatchDispatcher) *ProcessWebhookBatchCommand {
	return &ProcessWebhookBatchCommand{dispatcher: dispatcher}
}

func (c *ProcessWebhookBatchCommand) Execute(ctx context.Context, msg ProcessWebhookBatchMessage) error {
	if c == nil || c.dispatcher == nil {
		return commandDependencyError("command: webhook batch dispatcher is required")
	}
	out, err := c.dispatcher.Dispatch(ctx, msg.Batch)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SyncDealContactsCommand struct {
	syncer LinkSyncer
}

func NewSyncDealContactsCommand(syncer LinkSyncer) *SyncDealContactsCommand {
	return &SyncDealContactsCommand{syncer: syncer}
}

func (c *SyncDealContactsCommand) Execute(ctx context.Context, msg SyncDealContactsMessage) error {
	if c == nil || c.syncer == nil {
		return commandDependencyError("command: deal contact syncer is required")
	}
	return c.syncer.SyncDealContacts(ctx, msg.DealID, msg.ContactExternalIDs)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
