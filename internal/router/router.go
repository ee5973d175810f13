// Package router holds the HTTP route table.
package router

import (
	"time"

	"go-storefront/internal/cache"
	"go-storefront/internal/handler"
	"go-storefront/internal/media"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/ws"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Role       *handler.RoleHandler
	Dashboard  *handler.DashboardHandler
	Category   *handler.CategoryHandler
	Tag        *handler.TagHandler
	Attribute  *handler.AttributeHandler
	Discount   *handler.DiscountHandler
	Product    *handler.ProductHandler
	Storefront *handler.StorefrontHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
}

// Deps are the collaborators the route table needs besides handlers
type Deps struct {
	Auth      middleware.Authenticator
	Cache     cache.Cache
	Hub       *ws.Hub
	UploadDir string
}

func can(action, resource string) fiber.Handler {
	return middleware.RequirePrivilege(model.PrivilegeCode(action, resource))
}

func SetupRoutes(app *fiber.App, h Handlers, d Deps) {
	if d.UploadDir != "" {
		app.Static(media.PublicPrefix, d.UploadDir)
	}

	if d.Hub != nil {
		app.Use("/ws", ws.UpgradeOnly)
		app.Get("/ws", d.Hub.Handler())
	}

	api := app.Group("/api")
	throttle := middleware.RateLimit(d.Cache, 5, time.Minute)

	// ============ PUBLIC ROUTES ============
	// registered before the protected group so its auth middleware never runs for them
	auth := api.Group("/auth")
	auth.Post("/login", throttle, h.Auth.Login)
	auth.Post("/register", throttle, h.Auth.Register)

	shop := api.Group("/user")
	shop.Get("/category", h.Storefront.Categories)
	shop.Get("/product", h.Storefront.Products)
	shop.Get("/product/:slug", h.Storefront.Product)
	shop.Post("/checkout", middleware.RateLimit(d.Cache, 10, time.Minute), middleware.OptionalAuth(d.Auth), h.Storefront.Checkout)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.Auth))

	protected.Get("/user", h.Auth.Me)
	protected.Get("/profile", h.User.GetProfile)
	protected.Post("/profile", h.User.UpdateProfile)
	protected.Get("/roles", h.Role.GetRoles)
	protected.Get("/privileges", h.Role.GetPrivileges)
	protected.Get("/counts", h.Dashboard.GetDashboardStats)

	category := protected.Group("/category")
	category.Get("/", can("read", "categories"), h.Category.Index)
	category.Post("/", can("create", "categories"), h.Category.Store)
	category.Post("/deleteMany", can("delete", "categories"), h.Category.DeleteMany)
	category.Get("/:id", can("read", "categories"), h.Category.Show)
	category.Put("/:id", can("update", "categories"), h.Category.Update)
	category.Delete("/:id", can("delete", "categories"), h.Category.Destroy)

	tag := protected.Group("/tag")
	tag.Get("/", can("read", "tags"), h.Tag.Index)
	tag.Post("/", can("create", "tags"), h.Tag.Store)
	tag.Post("/deleteMany", can("delete", "tags"), h.Tag.DeleteMany)
	tag.Get("/:id", can("read", "tags"), h.Tag.Show)
	tag.Put("/:id", can("update", "tags"), h.Tag.Update)
	tag.Delete("/:id", can("delete", "tags"), h.Tag.Destroy)

	attribute := protected.Group("/attribute")
	attribute.Get("/", can("read", "attributes"), h.Attribute.Index)
	attribute.Post("/", can("create", "attributes"), h.Attribute.Store)
	attribute.Get("/:id", can("read", "attributes"), h.Attribute.Show)
	attribute.Put("/:id", can("update", "attributes"), h.Attribute.Update)
	attribute.Delete("/:id", can("delete", "attributes"), h.Attribute.Destroy)

	discount := protected.Group("/discount")
	discount.Get("/", can("read", "discounts"), h.Discount.Index)
	discount.Post("/", can("create", "discounts"), h.Discount.Store)
	discount.Get("/:id", can("read", "discounts"), h.Discount.Show)
	discount.Put("/:id", can("update", "discounts"), h.Discount.Update)
	discount.Delete("/:id", can("delete", "discounts"), h.Discount.Destroy)

	product := protected.Group("/product")
	product.Get("/", can("read", "products"), h.Product.Index)
	product.Post("/", can("create", "products"), h.Product.Store)
	product.Post("/deleteMany", can("delete", "products"), h.Product.DeleteMany)
	product.Post("/uploadImage/:id", can("update", "products"), h.Product.UploadImage)
	product.Post("/deleteImage", can("update", "products"), h.Product.DeleteImage)
	product.Get("/:id", can("read", "products"), h.Product.Show)
	product.Put("/:id", can("update", "products"), h.Product.Update)
	product.Delete("/:id", can("delete", "products"), h.Product.Destroy)
	product.Post("/:id/variants", can("update", "products"), h.Product.StoreVariant)
	product.Put("/:id/variants/:variantId", can("update", "products"), h.Product.UpdateVariant)
	product.Delete("/:id/variants/:variantId", can("update", "products"), h.Product.DestroyVariant)

	cart := protected.Group("/cart")
	cart.Get("/", h.Cart.Index)
	cart.Post("/", h.Cart.Store)
	cart.Get("/:id", h.Cart.Show)
	cart.Put("/:id", h.Cart.Update)
	cart.Delete("/:id", h.Cart.Destroy)

	order := protected.Group("/order")
	order.Get("/", can("read", "orders"), h.Order.Index)
	order.Get("/:id", can("read", "orders"), h.Order.Show)
}
