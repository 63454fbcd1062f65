package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where every resource is mounted
const APIPrefix = "/api/v1"

// Resource collects the routes under one path prefix. Guards are attached per
// route, so public reads and staff-only writes can share a prefix.
type Resource struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewResource(prefix string) *Resource {
	return &Resource{prefix: prefix}
}

// Use adds middleware ahead of every route of the resource
func (r *Resource) Use(middleware ...gin.HandlerFunc) *Resource {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Resource) GET(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodGet, path, handlers)
}

func (r *Resource) POST(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodPost, path, handlers)
}

func (r *Resource) PUT(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodPut, path, handlers)
}

func (r *Resource) PATCH(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodPatch, path, handlers)
}

func (r *Resource) DELETE(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodDelete, path, handlers)
}

func (r *Resource) add(method, path string, handlers []gin.HandlerFunc) *Resource {
	r.routes = append(r.routes, route{method: method, path: path, handlers: handlers})
	return r
}

// Routes lists "METHOD /prefix/path" for every route
func (r *Resource) Routes() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.method + " " + r.prefix + rt.path
	}
	return out
}

// Mount registers the resources on parent
func Mount(parent gin.IRouter, resources ...*Resource) {
	for _, res := range resources {
		group := parent.Group(res.prefix, res.middleware...)
		for _, rt := range res.routes {
			group.Handle(rt.method, rt.path, rt.handlers...)
		}
	}
}
