package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[ProcessWebhookBatchMessage] = (*ProcessWebhookBatchCommand)(nil)
	_ gocmd.Commander[SyncDealContactsMessage]    = (*SyncDealContactsCommand)(nil)
)
