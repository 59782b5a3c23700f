package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/http/handlers"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/domain"
)

// Route binds a method and path to the policy guarding it and the handler
// that runs once the policy authorizes the request.
type Route struct {
	Method  string
	Path    string
	Policy  auth.Policy
	Handler fiber.Handler
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Access     *auth.AccessControl
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Properties *handlers.PropertiesHandler
	Wishlist   *handlers.WishlistHandler
	Reviews    *handlers.ReviewsHandler
	Offers     *handlers.OffersHandler
	Payments   *handlers.PaymentsHandler
	// Metrics serves /metrics when set.
	Metrics fiber.Handler
}

// Routes returns the complete route table. Static paths are listed before
// parameterized siblings so they match first.
func Routes(cfg RouteConfig) []Route {
	var (
		public     = auth.Public()
		token      = auth.Authenticated()
		admin      = auth.Authenticated(auth.RequireRole(domain.RoleAdmin))
		agent      = auth.Authenticated(auth.RequireRole(domain.RoleAgent))
		self       = auth.Authenticated(auth.RequireOwner("email"))
		agentSelf  = auth.Authenticated(auth.RequireRole(domain.RoleAgent), auth.RequireOwner("email"))
		h, u, p    = cfg.Health, cfg.Users, cfg.Properties
		w, r, o, y = cfg.Wishlist, cfg.Reviews, cfg.Offers, cfg.Payments
	)

	routes := []Route{
		{fiber.MethodGet, "/", public, h.Root},
		{fiber.MethodGet, "/health/live", public, h.Live},
		{fiber.MethodGet, "/health/ready", public, h.Ready},

		{fiber.MethodPost, "/jwt", public, u.Login},
		{fiber.MethodPost, "/users", public, u.Register},
		{fiber.MethodGet, "/users", admin, u.List},
		{fiber.MethodGet, "/users/admin/:email", self, u.IsAdmin},
		{fiber.MethodGet, "/users/agent/:email", self, u.IsAgent},
		{fiber.MethodGet, "/users/role/:email", self, u.Role},
		{fiber.MethodPatch, "/users/admin/:id", admin, u.PromoteAdmin},
		{fiber.MethodPatch, "/users/agent/:id", admin, u.PromoteAgent},
		{fiber.MethodDelete, "/users/:id", admin, u.Delete},

		{fiber.MethodGet, "/properties", public, p.List},
		{fiber.MethodGet, "/properties/verified", public, p.ListVerified},
		{fiber.MethodGet, "/properties/agent/:email", agentSelf, p.ListByAgent},
		{fiber.MethodGet, "/properties/:id", public, p.Get},
		{fiber.MethodPost, "/properties", agent, p.Create},
		{fiber.MethodPut, "/properties/:id", agent, p.Replace},
		{fiber.MethodPatch, "/properties/:id/status", admin, p.SetStatus},
		{fiber.MethodPatch, "/properties/:id", agent, p.Patch},
		{fiber.MethodDelete, "/properties/:id", agent, p.Delete},

		{fiber.MethodGet, "/wishlist/:email", self, w.List},
		{fiber.MethodPost, "/wishlist", token, w.Add},
		{fiber.MethodDelete, "/wishlist/:id", token, w.Remove},

		{fiber.MethodGet, "/reviews", public, r.List},
		{fiber.MethodGet, "/reviews/user/:email", self, r.ListByUser},
		{fiber.MethodGet, "/reviews/:propertyId", public, r.ListByProperty},
		{fiber.MethodPost, "/reviews", token, r.Create},
		{fiber.MethodDelete, "/reviews/:id", token, r.Delete},

		{fiber.MethodPost, "/offers", token, o.Create},
		{fiber.MethodGet, "/offers/buyer/:email", self, o.ListByBuyer},
		{fiber.MethodGet, "/offers/agent/:email", agentSelf, o.ListByAgent},
		{fiber.MethodPatch, "/offers/:id/accept", agent, o.Accept},
		{fiber.MethodPatch, "/offers/:id/reject", agent, o.Reject},

		{fiber.MethodPost, "/payments/intent", token, y.CreateIntent},
		{fiber.MethodPost, "/payments", token, y.Record},
		{fiber.MethodGet, "/payments/agent/:email", agentSelf, y.ListByAgent},
		{fiber.MethodGet, "/payments/:email", self, y.ListByBuyer},
	}
	if cfg.Metrics != nil {
		routes = append(routes, Route{fiber.MethodGet, "/metrics", public, cfg.Metrics})
	}
	return routes
}

// RegisterRoutes wires HTTP routes, each behind its policy guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	for _, route := range Routes(cfg) {
		app.Add(route.Method, route.Path, cfg.Access.Guard(route.Policy), route.Handler)
	}
}
