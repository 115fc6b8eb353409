package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-crm-sync/core"
)

var (
	_ gocmd.Querier[ListContactsMessage, []core.Contact]     = (*ListContactsQuery)(nil)
	_ gocmd.Querier[ListDealsMessage, []core.Deal]           = (*ListDealsQuery)(nil)
	_ gocmd.Querier[ListDealContactsMessage, []core.Contact] = (*ListDealContactsQuery)(nil)
)
