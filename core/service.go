package core

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Engine is the reconciliation and relationship-sync engine. It holds no
// per-invocation state: every call reconciles one event against the shared
// store and returns.
type Engine struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	contactStore      ContactStore
	dealStore         DealStore
	linkStore         LinkStore
	contactPolicy     ReconcilePolicy
	dealPolicy        ReconcilePolicy
	dealLocks         keyedMutex
}

type EngineDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	ContactStore      ContactStore
	DealStore         DealStore
	LinkStore         LinkStore
}

// RepositoryStoreFactory is implemented by persistence adapters that can
// build the domain stores from a persistence client.
type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

func NewEngine(cfg Config, options ...Option) (*Engine, error) {
	builder := defaultEngineBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("crm-sync", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("crm-sync"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if (builder.contactStore == nil || builder.dealStore == nil || builder.linkStore == nil) &&
		builder.repositoryFactory != nil {
		var storeProvider StoreProvider
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			built, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			storeProvider = built
		} else if provider, ok := builder.repositoryFactory.(StoreProvider); ok {
			storeProvider = provider
		}
		if storeProvider != nil {
			if builder.contactStore == nil {
				builder.contactStore = storeProvider.ContactStore()
			}
			if builder.dealStore == nil {
				builder.dealStore = storeProvider.DealStore()
			}
			if builder.linkStore == nil {
				builder.linkStore = storeProvider.LinkStore()
			}
		}
	}

	contactPolicy := DefaultContactPolicy()
	if builder.contactPolicy != nil {
		contactPolicy = *builder.contactPolicy
	}
	dealPolicy := DefaultDealPolicy()
	if builder.dealPolicy != nil {
		dealPolicy = *builder.dealPolicy
	}

	return &Engine{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		contactStore:      builder.contactStore,
		dealStore:         builder.dealStore,
		linkStore:         builder.linkStore,
		contactPolicy:     contactPolicy,
		dealPolicy:        dealPolicy,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Engine, error) {
	return NewEngine(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return e.config
}

func (e *Engine) Dependencies() EngineDependencies {
	if e == nil {
		return EngineDependencies{}
	}
	return EngineDependencies{
		Logger:            e.logger,
		LoggerProvider:    e.loggerProvider,
		MetricsRecorder:   e.metricsRecorder,
		ErrorFactory:      e.errorFactory,
		ErrorMapper:       e.errorMapper,
		PersistenceClient: e.persistenceClient,
		RepositoryFactory: e.repositoryFactory,
		ConfigProvider:    e.configProvider,
		OptionsResolver:   e.optionsResolver,
		ContactStore:      e.contactStore,
		DealStore:         e.dealStore,
		LinkStore:         e.linkStore,
	}
}

func (e *Engine) ContactStore() ContactStore {
	if e == nil {
		return nil
	}
	return e.contactStore
}

func (e *Engine) DealStore() DealStore {
	if e == nil {
		return nil
	}
	return e.dealStore
}

func (e *Engine) LinkStore() LinkStore {
	if e == nil {
		return nil
	}
	return e.linkStore
}
