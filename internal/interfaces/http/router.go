package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cadena-pro/internal/application/auth"
	"github.com/tu-usuario/cadena-pro/internal/application/ledger"
	"github.com/tu-usuario/cadena-pro/internal/application/lifecycle"
	"github.com/tu-usuario/cadena-pro/internal/application/usecase"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LifecycleUC *lifecycle.UseCase
	LedgerUC    *ledger.UseCase
	ReportUC    *usecase.ReportUseCase
	UserUC      *usecase.UserUseCase
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Los allowlists de roles por endpoint
// replican las reglas de negocio de la cadena: quién puede crear productos,
// quién puede moverlos y quién administra cuentas.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	productHandler := NewProductHandler(deps.ProductUC, deps.LifecycleUC, deps.ReportUC)

	// Tracking público: cualquiera con el número de rastreo puede consultar.
	api.Get("/products/track/:trackingNumber", productHandler.Track)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	products.Post("/", RequireRole(entity.RoleManufacturer, entity.RoleSupplier, entity.RoleAdmin), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", RequireRole(entity.RoleManufacturer, entity.RoleSupplier, entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)
	products.Get("/:id/timeline", productHandler.Timeline)
	products.Get("/:id/report.pdf", productHandler.Report)

	// Ciclo de vida (protegido, por rol)
	products.Put("/:id/status",
		RequireRole(entity.RoleSupplier, entity.RoleDistributor, entity.RoleQualityInspector, entity.RoleAdmin),
		productHandler.ChangeStatus)
	products.Post("/:id/quality-check",
		RequireRole(entity.RoleSupplier, entity.RoleQualityInspector, entity.RoleAdmin),
		productHandler.QualityCheck)
	products.Post("/:id/transfer",
		RequireRole(entity.RoleSupplier, entity.RoleDistributor, entity.RoleAdmin),
		productHandler.Transfer)

	// Transactions (protegido)
	transactions := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.LedgerUC)
	transactions.Post("/", RequireRole(entity.RoleSupplier, entity.RoleDistributor, entity.RoleAdmin), txHandler.Create)
	transactions.Get("/", txHandler.List)
	transactions.Get("/product/:productId", txHandler.ListByProduct)
	transactions.Get("/:id", txHandler.Get)
	transactions.Put("/:id/status", RequireRole(entity.RoleDistributor, entity.RoleAdmin), txHandler.UpdateStatus)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/pending", userHandler.Pending)
	users.Put("/:id/verify", userHandler.Verify)
}
