package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"phoneshop-backend/internal/config"
	"phoneshop-backend/internal/infrastructure/cache"
	"phoneshop-backend/internal/infrastructure/database"
	"phoneshop-backend/internal/infrastructure/sequence"
	pkgdatabase "phoneshop-backend/pkg/database"
	"phoneshop-backend/pkg/jwt"

	customerHandler "phoneshop-backend/internal/domains/customer/handler"
	customerRepo "phoneshop-backend/internal/domains/customer/repository"
	customerService "phoneshop-backend/internal/domains/customer/service"
	invoiceHandler "phoneshop-backend/internal/domains/invoice/handler"
	invoiceRepo "phoneshop-backend/internal/domains/invoice/repository"
	invoiceService "phoneshop-backend/internal/domains/invoice/service"
	offerHandler "phoneshop-backend/internal/domains/offer/handler"
	offerRepo "phoneshop-backend/internal/domains/offer/repository"
	offerService "phoneshop-backend/internal/domains/offer/service"
	productHandler "phoneshop-backend/internal/domains/product/handler"
	productRepo "phoneshop-backend/internal/domains/product/repository"
	productService "phoneshop-backend/internal/domains/product/service"
	purchaseHandler "phoneshop-backend/internal/domains/purchase/handler"
	purchaseRepo "phoneshop-backend/internal/domains/purchase/repository"
	purchaseService "phoneshop-backend/internal/domains/purchase/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application and is the root of
// the dependency graph. Everything in it is a singleton for the app
// lifetime.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      *cache.RedisClient
	JWTManager *jwt.Manager
	TxManager  pkgdatabase.TxManager
	Sequence   sequence.Daily

	// Repositories
	ProductRepo  productRepo.RepositoryInterface
	OfferRepo    offerRepo.OfferRepository
	CustomerRepo customerRepo.RepositoryInterface
	InvoiceRepo  invoiceRepo.RepositoryInterface
	PurchaseRepo purchaseRepo.PurchaseRepository
	BuyBackRepo  purchaseRepo.BuyBackRepository

	// Services
	ProductService  productService.ServiceInterface
	OfferService    offerService.ServiceInterface
	OfferResolver   offerService.ResolverInterface
	CustomerService customerService.ServiceInterface
	InvoiceService  invoiceService.ServiceInterface
	PurchaseService purchaseService.ServiceInterface
	BuyBackService  purchaseService.BuyBackServiceInterface

	// Handlers
	ProductHandler  *productHandler.ProductHandler
	OfferHandler    *offerHandler.OfferHandler
	CustomerHandler *customerHandler.CustomerHandler
	InvoiceHandler  *invoiceHandler.InvoiceHandler
	PurchaseHandler *purchaseHandler.PurchaseHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the full dependency graph in layer order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// Step 2: database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("Database connected")

	// Step 3: redis
	redisClient := cache.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisClient.Connect(context.Background()); err != nil {
		// numbering falls back to a table scan when redis is away, so a
		// failed connection is not fatal
		log.Printf("Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("Redis connected")
	}
	c.Cache = redisClient
	c.Sequence = sequence.NewRedisDaily(redisClient.Client)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)
	c.TxManager = pkgdatabase.NewTxManager(db.Pool)

	// Step 4: repositories
	c.initRepositories()
	log.Println("Repositories initialized")

	// Step 5: services
	c.initServices()
	log.Println("Services initialized")

	// Step 6: handlers
	c.initHandlers()
	log.Println("Handlers initialized")

	log.Println("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ProductRepo = productRepo.NewRepository(pool)
	c.OfferRepo = offerRepo.NewRepository(pool)
	c.CustomerRepo = customerRepo.NewRepository(pool)
	c.InvoiceRepo = invoiceRepo.NewRepository(pool)
	c.PurchaseRepo = purchaseRepo.NewPurchaseRepository(pool)
	c.BuyBackRepo = purchaseRepo.NewBuyBackRepository(pool)
}

func (c *Container) initServices() {
	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.OfferService = offerService.NewOfferService(c.OfferRepo)
	c.OfferResolver = offerService.NewResolver(c.OfferRepo)
	c.CustomerService = customerService.NewCustomerService(c.CustomerRepo)

	pricer := invoiceService.NewPricer(c.ProductRepo, c.OfferResolver)
	c.InvoiceService = invoiceService.NewInvoiceService(
		c.InvoiceRepo,
		c.ProductRepo,
		c.CustomerRepo,
		pricer,
		c.Sequence,
		c.TxManager,
	)

	c.PurchaseService = purchaseService.NewPurchaseService(
		c.PurchaseRepo,
		c.ProductRepo,
		c.Sequence,
		c.TxManager,
	)
	c.BuyBackService = purchaseService.NewBuyBackService(c.BuyBackRepo, c.Sequence)
}

func (c *Container) initHandlers() {
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.OfferHandler = offerHandler.NewOfferHandler(c.OfferService, c.OfferResolver, c.ProductService)
	c.CustomerHandler = customerHandler.NewCustomerHandler(c.CustomerService)
	c.InvoiceHandler = invoiceHandler.NewInvoiceHandler(c.InvoiceService)
	c.PurchaseHandler = purchaseHandler.NewPurchaseHandler(c.PurchaseService, c.BuyBackService)
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("Redis close failed: %v", err)
		}
	}
	log.Println("Container cleaned up")
}
