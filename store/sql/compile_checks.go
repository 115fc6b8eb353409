package sqlstore

import "github.com/goliatone/go-crm-sync/core"

var (
	_ core.ContactStore           = (*ContactStore)(nil)
	_ core.DealStore              = (*DealStore)(nil)
	_ core.LinkStore              = (*LinkStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
