package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/adapter"
	"github.com/niksmo/shop-admin/internal/adapter/assets"
	"github.com/niksmo/shop-admin/internal/adapter/credentials"
	"github.com/niksmo/shop-admin/internal/adapter/httphandler"
	"github.com/niksmo/shop-admin/internal/adapter/kafka"
	"github.com/niksmo/shop-admin/internal/adapter/memory"
	"github.com/niksmo/shop-admin/internal/adapter/sanity"
	"github.com/niksmo/shop-admin/internal/adapter/session"
	"github.com/niksmo/shop-admin/internal/adapter/storage"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/service"
	"github.com/niksmo/shop-admin/internal/core/view"
	"github.com/niksmo/shop-admin/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const loginPath = "/"

type gateways struct {
	orders   port.OrdersGateway
	products port.ProductsGateway
	assets   port.AssetUploader
	images   port.ImageURLResolver
	files    http.Handler
}

type coreService struct {
	auth     port.Authenticator
	orders   service.Orders
	products service.Products
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	gateways   gateways
	events     port.EventsProducer
	sessions   *session.MemoryStore
	views      *view.Registry
	service    coreService
	handler    http.Handler
	httpServer httphandler.HTTPServer
	closers    []func()
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initGateways()
	app.initEventsProducer()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initGateways() {
	const op = "App.initGateways"

	switch app.cfg.Gateway.Backend {
	case config.BackendSanity:
		sc := app.cfg.Gateway.Sanity
		client, err := sanity.NewClient(sanity.Config{
			ProjectID:  sc.ProjectID,
			Dataset:    sc.Dataset,
			APIVersion: sc.APIVersion,
			Token:      sc.Token,
			APIHost:    sc.APIHost,
			CDNHost:    sc.CDNHost,
			Timeout:    sc.Timeout,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.gateways = gateways{
			orders:   client,
			products: client,
			assets:   client,
			images:   client.Images(),
		}

	case config.BackendPostgres:
		app.initAssetStore()
		sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.Gateway.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.closers = append(app.closers, sqldb.Close)
		gw := storage.NewGateway(sqldb, app.gateways.images)
		app.gateways.orders = gw
		app.gateways.products = gw

	case config.BackendMemory:
		app.initAssetStore()
		docs := memory.NewDocuments(app.gateways.images)
		app.gateways.orders = docs
		app.gateways.products = docs

	default:
		app.fallDown(op, fmt.Errorf("unknown backend %q", app.cfg.Gateway.Backend))
	}

	slog.Info("gateway is ready", "backend", app.cfg.Gateway.Backend)
}

// initAssetStore sets the uploader and image URLs for the self hosted
// backends. Only the file system store is served by this process.
func (app *App) initAssetStore() {
	const op = "App.initAssetStore"
	ac := app.cfg.Assets

	app.gateways.images = domain.ImageURLBuilder{BaseURL: ac.PublicURL}

	switch ac.Backend {
	case config.AssetsFS:
		store := assets.NewOSStore(ac.FSRoot)
		app.gateways.assets = store
		app.gateways.files = store.Handler()
	case config.AssetsHDFS:
		store, err := assets.NewHDFSStore(ac.HDFSAddr, ac.HDFSUser, ac.HDFSRoot)
		if err != nil {
			app.fallDown(op, err)
		}
		app.gateways.assets = store
		app.closers = append(app.closers, store.Close)
	default:
		app.fallDown(op, fmt.Errorf("unknown assets backend %q", ac.Backend))
	}
}

func (app *App) initEventsProducer() {
	const op = "App.initEventsProducer"
	bc := app.cfg.Broker

	if !bc.Enabled() {
		slog.Info("admin events are disabled")
		return
	}

	srClient, err := sr.NewClient(sr.URLs(bc.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeAdminEventV1(
		app.ctx,
		schema.SubjectOpt(bc.Topics.AdminEvents+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaRegistry(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	tlsCfg, err := adapter.MakeTLSConfig(bc.TLS.CA, bc.TLS.Cert, bc.TLS.Key)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewEventsProducer(
		kafka.ProducerClientOpt(app.ctx, bc.SeedBrokers, bc.Topics.AdminEvents, tlsCfg),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.events = producer
	app.closers = append(app.closers, producer.Close)
	slog.Info("admin events are enabled", "topic", bc.Topics.AdminEvents)
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	accounts := make([]credentials.Account, 0, len(app.cfg.Auth.Accounts))
	for _, a := range app.cfg.Auth.Accounts {
		accounts = append(accounts, credentials.Account{
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
		})
	}
	creds, err := credentials.NewStore(accounts)
	if err != nil {
		app.fallDown(op, err)
	}

	app.views = view.NewRegistry()
	app.sessions = session.NewMemoryStore(session.EvictHookOpt(app.views.Drop))

	gw := app.gateways
	app.service = coreService{
		auth:   service.NewAuth(creds, app.sessions, app.cfg.Auth.SessionTTL),
		orders: service.NewOrders(gw.orders, app.events),
		products: service.NewProducts(
			gw.products, gw.assets, gw.images, app.events,
		),
	}
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	protect := httphandler.RequireSession(app.service.auth, loginPath)

	httphandler.RegisterLanding(mux)
	httphandler.RegisterAuth(mux, app.service.auth)
	httphandler.RegisterOrders(mux, protect, app.service.orders, app.views)
	httphandler.RegisterProducts(mux, protect, app.service.products, app.views)
	if app.gateways.files != nil {
		httphandler.RegisterAssets(mux, app.gateways.files)
	}

	app.handler = httphandler.Logging(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, app.handler, app.cfg.HTTPRequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.sessions.Run(app.ctx)
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.orders.Wait()
	app.service.products.Wait()
	for _, closeFn := range slices.Backward(app.closers) {
		closeFn()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
