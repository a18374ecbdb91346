package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/application/commands/bus"
	"github.com/utemix-lab/vovaipetrova-sub000/application/commands/handlers"
	"github.com/utemix-lab/vovaipetrova-sub000/application/ports"
	"github.com/utemix-lab/vovaipetrova-sub000/application/protocol"
	querybus "github.com/utemix-lab/vovaipetrova-sub000/application/queries/bus"
	queryhandlers "github.com/utemix-lab/vovaipetrova-sub000/application/queries/handlers"
	domainconfig "github.com/utemix-lab/vovaipetrova-sub000/domain/config"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/invariants"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/schema"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/services"
	"github.com/utemix-lab/vovaipetrova-sub000/infrastructure/config"
	"github.com/utemix-lab/vovaipetrova-sub000/infrastructure/messaging"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/extensions"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/observability"
)

// ServiceName identifies this process in traces
const ServiceName = "graph-core"

// retainedEvents bounds the in-memory event log of the bus
const retainedEvents = 1000

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideCatalog,
	ProvideChecker,
	ProvideMetrics,
	ProvideTracer,
	ProvideEventBus,
	wire.Bind(new(ports.EventPublisher), new(*messaging.MemoryBus)),
	ProvideHooks,
	ProvideCommandMiddlewares,
	ProvideProtocolOptions,
	wire.Struct(new(Container), "*"),
)

// Container holds all application dependencies. The live graph is not a
// dependency: sessions are opened per document.
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Domain          *domainconfig.DomainConfig
	Catalog         *schema.Catalog
	Checker         *invariants.Checker
	Metrics         *observability.Collector
	Tracer          *observability.Tracer
	EventBus        *messaging.MemoryBus
	Hooks           *extensions.HookManager
	Middlewares     []bus.Middleware
	ProtocolOptions protocol.Options
}

// Session is a protocol over one document plus the buses driving it.
// Queries read the live state of the protocol.
type Session struct {
	Protocol   *protocol.MutationProtocol
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}

// NewSession opens a protocol over initial and registers its handlers
func (c *Container) NewSession(initial *aggregates.Graph) (*Session, error) {
	p, err := protocol.New(initial, c.ProtocolOptions)
	if err != nil {
		return nil, err
	}
	b := bus.NewCommandBus(c.Middlewares...)
	if err := handlers.NewProposalHandler(p, c.Logger).Register(b); err != nil {
		return nil, err
	}
	q := querybus.NewQueryBus(querybus.MetricsMiddleware(c.Metrics))
	if err := queryhandlers.NewGraphQueryHandler(p, c.Logger).Register(q); err != nil {
		return nil, err
	}
	return &Session{Protocol: p, CommandBus: b, QueryBus: q}, nil
}

// NewAnalyzer creates a structural analyzer over g
func (c *Container) NewAnalyzer(g *aggregates.Graph) *services.StructuralAnalyzer {
	return services.NewStructuralAnalyzer(g, c.Logger, c.Tracer)
}

// ProvideLogger creates the logger described by the configuration
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return cfg.NewLogger()
}

// ProvideDomainConfig resolves the domain profile with its overrides
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	d := cfg.Domain()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ProvideCatalog loads the schema catalog file, or the default catalog
// when none is configured
func ProvideCatalog(cfg *config.Config, logger *zap.Logger) (*schema.Catalog, error) {
	if cfg.SchemaCatalogPath == "" {
		return schema.DefaultCatalog(), nil
	}
	catalog, err := schema.LoadCatalog(cfg.SchemaCatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Schema catalog loaded",
		zap.String("path", cfg.SchemaCatalogPath),
		zap.String("version", catalog.Version()))
	return catalog, nil
}

// ProvideChecker creates the invariant checker
func ProvideChecker(catalog *schema.Catalog, logger *zap.Logger) *invariants.Checker {
	return invariants.NewChecker(catalog, logger)
}

// ProvideMetrics creates the metrics collector, nil when metrics are off
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(cfg.MetricsNamespace)
}

// ProvideTracer creates the tracer, nil when tracing is off
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer(ServiceName)
}

// ProvideEventBus creates the in-process event bus
func ProvideEventBus(logger *zap.Logger) *messaging.MemoryBus {
	return messaging.NewMemoryBus(retainedEvents, logger)
}

// ProvideHooks creates an empty hook manager
func ProvideHooks() *extensions.HookManager {
	return extensions.NewHookManager()
}

// ProvideCommandMiddlewares returns the middlewares wrapping every command
func ProvideCommandMiddlewares(logger *zap.Logger) []bus.Middleware {
	return []bus.Middleware{
		bus.RecoveryMiddleware(),
		bus.LoggingMiddleware(logger),
	}
}

// ProvideProtocolOptions gathers everything a protocol session needs
func ProvideProtocolOptions(
	d *domainconfig.DomainConfig,
	catalog *schema.Catalog,
	checker *invariants.Checker,
	logger *zap.Logger,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	publisher ports.EventPublisher,
	hooks *extensions.HookManager,
) protocol.Options {
	return protocol.Options{
		Catalog:           catalog,
		Checker:           checker,
		Strictness:        d.Strictness,
		SchemaVersion:     d.SchemaVersion,
		MaxHistoryEntries: d.MaxHistoryEntries,
		Logger:            logger,
		Metrics:           metrics,
		Tracer:            tracer,
		Publisher:         publisher,
		Hooks:             hooks,
	}
}
