// Package app wires repositories, services and handlers into a fiber app.
package app

import (
	"errors"
	"log"
	"time"

	"go-storefront/internal/cache"
	"go-storefront/internal/catalog"
	"go-storefront/internal/handler"
	"go-storefront/internal/media"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/router"
	"go-storefront/internal/service"
	"go-storefront/internal/ws"
	"go-storefront/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type Options struct {
	AppName        string
	PerPage        int
	CacheTTL       time.Duration
	CurrencySymbol string
	UploadDir      string
	RequestLog     bool

	LowStockThreshold int

	Cache   cache.Cache
	Storage media.Storage
	Signer  *jwt.Signer
	Hub     *ws.Hub
}

// New builds the HTTP application on db
func New(db *gorm.DB, o Options) *fiber.App {
	if o.Cache == nil {
		o.Cache = cache.Nop{}
	}

	// Dependency Injection (Wiring Layers)
	categoryRepo := repository.NewCategoryRepo(db, o.PerPage)
	tagRepo := repository.NewTagRepo(db, o.PerPage)
	attributeRepo := repository.NewAttributeRepo(db, o.PerPage)
	discountRepo := repository.NewDiscountRepo(db, o.PerPage)
	productRepo := repository.NewProductRepo(db, o.PerPage)
	orderRepo := repository.NewOrderRepo(db, o.PerPage)
	cartRepo := repository.NewCartRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)

	storefrontCache := service.NewStorefrontCache(o.Cache, o.CacheTTL)
	feed := service.NewChangeFeed(nil, storefrontCache)
	if o.Hub != nil {
		feed.Publisher = o.Hub
	}
	shaper := catalog.NewShaper(o.Storage, catalog.NewFormatter(o.CurrencySymbol))

	authService := service.NewAuthService(userRepo, o.Signer)
	userService := service.NewUserService(userRepo, roleRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, db, feed)

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		User:       handler.NewUserHandler(userService),
		Role:       handler.NewRoleHandler(roleRepo, privilegeRepo),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(orderRepo, productRepo, o.LowStockThreshold)),
		Category:   handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, feed)),
		Tag:        handler.NewTagHandler(service.NewTagService(tagRepo, feed)),
		Attribute:  handler.NewAttributeHandler(service.NewAttributeService(attributeRepo, feed)),
		Discount:   handler.NewDiscountHandler(service.NewDiscountService(discountRepo, productRepo, feed)),
		Product:    handler.NewProductHandler(service.NewProductService(productRepo, categoryRepo, tagRepo, attributeRepo, o.Storage, shaper, feed)),
		Storefront: handler.NewStorefrontHandler(service.NewStorefrontService(productRepo, categoryRepo, shaper, storefrontCache), orderService),
		Cart:       handler.NewCartHandler(service.NewCartService(cartRepo, productRepo)),
		Order:      handler.NewOrderHandler(orderService),
	}

	app := fiber.New(fiber.Config{
		AppName:   o.AppName,
		BodyLimit: 32 * 1024 * 1024, // multipart product forms carry several images
	})

	if o.RequestLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	router.SetupRoutes(app, handlers, router.Deps{
		Auth:      authService,
		Cache:     o.Cache,
		Hub:       o.Hub,
		UploadDir: o.UploadDir,
	})
	return app
}

// Seed creates default privileges, roles and the admin user if they don't exist
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// privileges first, roles are granted from them
	if err := privilegeRepo.SeedDefaults(); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		return err
	}

	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	role, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:    adminEmail,
		Name:     "Administrator",
		RoleID:   &role.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	log.Printf("Admin user created: %s (ADMIN)", adminEmail)
	return nil
}
