package sqlstore

import (
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-crm-sync/core"
)

type RepositoryFactory struct {
	db           *bun.DB
	contactCache repositorycache.CacheService

	contactStore  *ContactStore
	contactLookup core.ContactStore
	dealStore     *DealStore
	linkStore     *LinkStore
}

type RepositoryFactoryOption func(*RepositoryFactory)

// WithContactCache wraps the contact store in the cached external-id lookup
// decorator so relationship sync resolution hits the cache.
func WithContactCache(cacheService repositorycache.CacheService) RepositoryFactoryOption {
	return func(f *RepositoryFactory) {
		f.contactCache = cacheService
	}
}

func NewRepositoryFactory(opts ...RepositoryFactoryOption) *RepositoryFactory {
	factory := &RepositoryFactory{}
	for _, opt := range opts {
		if opt != nil {
			opt(factory)
		}
	}
	return factory
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, opts ...RepositoryFactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, opts ...RepositoryFactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.contactStore != nil && f.dealStore != nil && f.linkStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) ContactStore() core.ContactStore {
	if f == nil {
		return nil
	}
	return f.contactLookup
}

func (f *RepositoryFactory) DealStore() core.DealStore {
	if f == nil {
		return nil
	}
	return f.dealStore
}

func (f *RepositoryFactory) LinkStore() core.LinkStore {
	if f == nil {
		return nil
	}
	return f.linkStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	contactStore, err := NewContactStore(f.db)
	if err != nil {
		return err
	}
	f.contactStore = contactStore
	f.contactLookup = contactStore
	if f.contactCache != nil {
		cached, err := NewCachedContactStore(contactStore, f.contactCache)
		if err != nil {
			return err
		}
		f.contactLookup = cached
	}

	dealStore, err := NewDealStore(f.db)
	if err != nil {
		return err
	}
	f.dealStore = dealStore

	linkStore, err := NewLinkStore(f.db)
	if err != nil {
		return err
	}
	f.linkStore = linkStore

	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
