package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access says who may call a route
type Access int

const (
	// Anyone, anonymous sessions included
	Anyone Access = iota
	// Customer needs a signed-in customer
	Customer
	// Admin needs the admin role claim
	Admin
)

func (a Access) String() string {
	switch a {
	case Anyone:
		return "anyone"
	case Customer:
		return "customer"
	case Admin:
		return "admin"
	}
	return fmt.Sprintf("Access(%d)", int(a))
}

// Guards are the middleware enforcing each restricted Access level
type Guards struct {
	Customer gin.HandlerFunc
	Admin    gin.HandlerFunc
}

func (g Guards) chain(access Access, h gin.HandlerFunc) []gin.HandlerFunc {
	switch {
	case access == Customer && g.Customer != nil:
		return []gin.HandlerFunc{g.Customer, h}
	case access == Admin && g.Admin != nil:
		return []gin.HandlerFunc{g.Admin, h}
	}
	return []gin.HandlerFunc{h}
}

type route struct {
	method  string
	path    string
	access  Access
	handler gin.HandlerFunc
}

// Area is one part of the API mounted under its own prefix, such as /cart
type Area struct {
	name   string
	prefix string
	access Access
	routes []route
}

// NewArea creates an area whose routes are open to anyone unless stated
func NewArea(name, prefix string) *Area {
	return &Area{name: name, prefix: prefix}
}

// RequireAll sets the access level of routes added without one
func (a *Area) RequireAll(access Access) *Area {
	a.access = access
	return a
}

// Handle adds a route. access overrides the area default when given.
func (a *Area) Handle(method, path string, h gin.HandlerFunc, access ...Access) *Area {
	r := route{method: method, path: path, access: a.access, handler: h}
	if len(access) > 0 {
		r.access = access[0]
	}
	a.routes = append(a.routes, r)
	return a
}

func (a *Area) GET(path string, h gin.HandlerFunc, access ...Access) *Area {
	return a.Handle(http.MethodGet, path, h, access...)
}

func (a *Area) POST(path string, h gin.HandlerFunc, access ...Access) *Area {
	return a.Handle(http.MethodPost, path, h, access...)
}

func (a *Area) PUT(path string, h gin.HandlerFunc, access ...Access) *Area {
	return a.Handle(http.MethodPut, path, h, access...)
}

func (a *Area) PATCH(path string, h gin.HandlerFunc, access ...Access) *Area {
	return a.Handle(http.MethodPatch, path, h, access...)
}

func (a *Area) DELETE(path string, h gin.HandlerFunc, access ...Access) *Area {
	return a.Handle(http.MethodDelete, path, h, access...)
}

// Name returns the area name
func (a *Area) Name() string { return a.name }

// RouteInfo describes a mounted route
type RouteInfo struct {
	Method string
	Path   string
	Access Access
}

// API mounts areas under /api/<version> behind shared middleware. Routes
// mounted directly on the engine, such as /health, skip that middleware.
type API struct {
	engine     *gin.Engine
	version    string
	guards     Guards
	middleware []gin.HandlerFunc
	areas      []*Area
}

// NewAPI creates an API for version, e.g. "v1"
func NewAPI(engine *gin.Engine, version string, guards Guards) *API {
	return &API{engine: engine, version: version, guards: guards}
}

// Use adds middleware that runs for every API route
func (api *API) Use(middleware ...gin.HandlerFunc) *API {
	api.middleware = append(api.middleware, middleware...)
	return api
}

// Add queues areas for Mount
func (api *API) Add(areas ...*Area) *API {
	api.areas = append(api.areas, areas...)
	return api
}

// BasePath returns the versioned prefix, e.g. /api/v1
func (api *API) BasePath() string {
	return "/api/" + api.version
}

// Mount registers every queued route with the engine and returns what was
// mounted, in registration order.
func (api *API) Mount() []RouteInfo {
	root := api.engine.Group(api.BasePath())
	if len(api.middleware) > 0 {
		root.Use(api.middleware...)
	}

	var mounted []RouteInfo
	for _, area := range api.areas {
		group := root.Group(area.prefix)
		for _, r := range area.routes {
			group.Handle(r.method, r.path, api.guards.chain(r.access, r.handler)...)
			mounted = append(mounted, RouteInfo{
				Method: r.method,
				Path:   api.BasePath() + area.prefix + r.path,
				Access: r.access,
			})
		}
	}
	return mounted
}
