package router

import (
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/config"
	"github.com/say-lem/Ventree-Backend-sub001/internal/handler"
	"github.com/say-lem/Ventree-Backend-sub001/internal/infra"
	"github.com/say-lem/Ventree-Backend-sub001/internal/middleware"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries the wired services and repositories from the composition root
// in main. Handlers never build their own dependencies.
type Deps struct {
	Sales     service.SaleService
	Credit    service.CreditService
	Items     service.ItemService
	Stock     service.StockService
	ItemRepo  repository.ItemRepository
	Movements repository.StockMovementRepository
	Audit     repository.AuditRepository
	GatewayCB *infra.CircuitBreaker
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, d Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(d.Sales)
	creditH := handler.NewCreditHandler(d.Credit)
	itemsH := handler.NewItemsHandler(d.Items, d.Stock)
	movementsH := handler.NewMovementsHandler(d.Movements, d.ItemRepo)
	auditH := handler.NewAuditHandler(d.Audit)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, d.GatewayCB))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleOwner, model.RoleManager, model.RoleSales)
	managers := middleware.RequireRole(model.RoleOwner, model.RoleManager)
	ownerOnly := middleware.RequireRole(model.RoleOwner)

	v1 := r.Group("/v1", jwtMW)
	{
		// Sales — every staff member sells; refunds need a manager; deletion
		// is re-checked against the shop owner inside the service.
		v1.POST("/sales", anyStaff, salesH.CreateSale)
		v1.GET("/sales", anyStaff, salesH.ListSales)
		v1.GET("/sales/:id", anyStaff, salesH.GetSale)
		v1.POST("/sales/:id/refund", managers, salesH.RefundSale)
		v1.DELETE("/sales/:id", ownerOnly, salesH.DeleteSale)

		// Credit ledger
		v1.POST("/sales/:id/payments", anyStaff, creditH.RecordPayment)
		v1.GET("/credit/customers/:phone", anyStaff, creditH.CustomerCredit)
		v1.GET("/credit/overdue", anyStaff, creditH.OverdueSales)

		// Catalog — reads for everyone, writes for managers
		v1.GET("/items", anyStaff, itemsH.ListItems)
		v1.GET("/items/:id", anyStaff, itemsH.GetItem)
		v1.GET("/items/:id/prices", anyStaff, itemsH.PriceHistory)
		v1.GET("/items/:id/movements", anyStaff, movementsH.ListByItem)
		items := v1.Group("/items", managers)
		{
			items.POST("", itemsH.CreateItem)
			items.PATCH("/:id", itemsH.UpdateItem)
			items.PUT("/:id/prices", itemsH.UpdatePrices)
			items.DELETE("/:id", itemsH.DeactivateItem)
			items.POST("/:id/restock", itemsH.RestockItem)
			items.POST("/:id/damage", itemsH.RecordDamage)
		}

		// Stock reports
		v1.GET("/stock/low", anyStaff, itemsH.LowStock)
		v1.POST("/stock/reconcile", managers, itemsH.ReconcileStock)

		// Audit trail and ops
		v1.GET("/audit", managers, auditH.List)
		v1.GET("/ops/dlq/:queue", ownerOnly, handler.PeekDLQ(rdb))
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
