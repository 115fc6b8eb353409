package crmsync

import "github.com/goliatone/go-crm-sync/core"

type Config = core.Config

type Option = core.Option

type Engine = core.Engine

type EngineDependencies = core.EngineDependencies

type ContactStore = core.ContactStore
type DealStore = core.DealStore
type LinkStore = core.LinkStore
type StoreProvider = core.StoreProvider
type ReconcilePolicy = core.ReconcilePolicy

type Contact = core.Contact
type Deal = core.Deal
type ContactEvent = core.ContactEvent
type DealEvent = core.DealEvent
type WebhookBatch = core.WebhookBatch
type EventKind = core.EventKind
type EntityKind = core.EntityKind

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithContactStore      = core.WithContactStore
	WithDealStore         = core.WithDealStore
	WithLinkStore         = core.WithLinkStore
	WithContactPolicy     = core.WithContactPolicy
	WithDealPolicy        = core.WithDealPolicy
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	return core.NewEngine(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Engine, error) {
	return core.Setup(cfg, opts...)
}
