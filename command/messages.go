package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-crm-sync/core"
)

const (
	TypeProcessWebhookBatch = "crmsync.command.webhook_batch.process"
	TypeSyncDealContacts    = "crmsync.command.deal_contacts.sync"
)

type ProcessWebhookBatchMessage struct {
	Batch core.WebhookBatch
}

func (ProcessWebhookBatchMessage) Type() string { return TypeProcessWebhookBatch }

func (m ProcessWebhookBatchMessage) Validate() error {
	if m.Batch.Empty() {
		return fmt.Errorf("command: webhook batch carries no events")
	}
	return nil
}

type SyncDealContactsMessage struct {
	DealID             string
	ContactExternalIDs []int64
}

func (SyncDealContactsMessage) Type() string { return TypeSyncDealContacts }

func (m SyncDealContactsMessage) Validate() error {
	if strings.TrimSpace(m.DealID) == "" {
		return fmt.Errorf("command: deal id is required")
	}
	return nil
}
