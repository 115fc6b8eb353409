package crmsync

import (
	"fmt"
	"net/http"

	crmcommand "github.com/goliatone/go-crm-sync/command"
	"github.com/goliatone/go-crm-sync/core"
	"github.com/goliatone/go-crm-sync/inbound"
	crmquery "github.com/goliatone/go-crm-sync/query"
	"github.com/goliatone/go-crm-sync/transport"
)

type Commands struct {
	ProcessWebhookBatch *crmcommand.ProcessWebhookBatchCommand
	SyncDealContacts    *crmcommand.SyncDealContactsCommand
}

type Queries struct {
	ListContacts     *crmquery.ListContactsQuery
	ListDeals        *crmquery.ListDealsQuery
	ListDealContacts *crmquery.ListDealContactsQuery
}

// Facade bundles the engine with its inbound dispatcher and the command and
// query handlers, so callers wire one value instead of five packages.
type Facade struct {
	engine     *core.Engine
	dispatcher *inbound.Dispatcher
	commands   Commands
	queries    Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	dispatcher *inbound.Dispatcher
}

// WithDispatcher overrides the dispatcher the facade builds from the engine.
func WithDispatcher(dispatcher *inbound.Dispatcher) FacadeOption {
	return func(options *facadeOptions) {
		options.dispatcher = dispatcher
	}
}

func NewFacade(engine *core.Engine, opts ...FacadeOption) (*Facade, error) {
	if engine == nil {
		return nil, fmt.Errorf("crmsync: engine is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	dispatcher := cfg.dispatcher
	if dispatcher == nil {
		deps := engine.Dependencies()
		built, err := inbound.NewDispatcher(engine, inbound.WithLogger(deps.Logger))
		if err != nil {
			return nil, err
		}
		dispatcher = built
	}

	facade := &Facade{
		engine:     engine,
		dispatcher: dispatcher,
	}
	facade.commands = Commands{
		ProcessWebhookBatch: crmcommand.NewProcessWebhookBatchCommand(dispatcher),
		SyncDealContacts:    crmcommand.NewSyncDealContactsCommand(engine),
	}
	facade.queries = Queries{
		ListContacts:     crmquery.NewListContactsQuery(engine.ContactStore()),
		ListDeals:        crmquery.NewListDealsQuery(engine.DealStore()),
		ListDealContacts: crmquery.NewListDealContactsQuery(engine.LinkStore()),
	}

	return facade, nil
}

func (f *Facade) Engine() *core.Engine {
	if f == nil {
		return nil
	}
	return f.engine
}

func (f *Facade) Dispatcher() *inbound.Dispatcher {
	if f == nil {
		return nil
	}
	return f.dispatcher
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

// HTTPHandler builds the HTTP surface: webhook intake, health check, and the
// debug listings, all backed by this facade.
func (f *Facade) HTTPHandler() (http.Handler, error) {
	if f == nil || f.dispatcher == nil {
		return nil, fmt.Errorf("crmsync: facade is not configured")
	}
	handler, err := transport.NewHandler(f.dispatcher,
		transport.WithLogger(f.engine.Dependencies().Logger),
		transport.WithListLimit(f.engine.Config().Debug.ListLimit),
		transport.WithContactLister(f.queries.ListContacts),
		transport.WithDealLister(f.queries.ListDeals),
		transport.WithDealContactLister(f.queries.ListDealContacts),
	)
	if err != nil {
		return nil, err
	}
	return handler.Router(), nil
}
