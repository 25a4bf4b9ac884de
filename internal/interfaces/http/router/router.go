package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where the cron, admin and storefront groups are mounted
const APIPrefix = "/api/v1"

// Group is a set of routes behind shared guard middleware. Groups nest, and
// a child inherits its parent's guards.
type Group struct {
	prefix   string
	guards   []gin.HandlerFunc
	routes   []route
	children []*Group
}

type route struct {
	methods []string
	path    string
	handler gin.HandlerFunc
}

// NewGroup returns an empty group rooted at prefix
func NewGroup(prefix string, guards ...gin.HandlerFunc) *Group {
	return &Group{prefix: prefix, guards: guards}
}

// Guard appends middleware that runs before every route in the group
func (g *Group) Guard(mw ...gin.HandlerFunc) *Group {
	g.guards = append(g.guards, mw...)
	return g
}

// On registers h for p under each method
func (g *Group) On(p string, h gin.HandlerFunc, methods ...string) *Group {
	g.routes = append(g.routes, route{methods: methods, path: p, handler: h})
	return g
}

func (g *Group) GET(p string, h gin.HandlerFunc) *Group    { return g.On(p, h, http.MethodGet) }
func (g *Group) POST(p string, h gin.HandlerFunc) *Group   { return g.On(p, h, http.MethodPost) }
func (g *Group) PUT(p string, h gin.HandlerFunc) *Group    { return g.On(p, h, http.MethodPut) }
func (g *Group) PATCH(p string, h gin.HandlerFunc) *Group  { return g.On(p, h, http.MethodPatch) }
func (g *Group) DELETE(p string, h gin.HandlerFunc) *Group { return g.On(p, h, http.MethodDelete) }

// Sub returns a child group under prefix
func (g *Group) Sub(prefix string) *Group {
	child := NewGroup(prefix)
	g.children = append(g.children, child)
	return child
}

// Mount attaches the group and its children to r
func (g *Group) Mount(r gin.IRouter) {
	rg := r.Group(g.prefix, g.guards...)
	for _, rt := range g.routes {
		for _, m := range rt.methods {
			rg.Handle(m, rt.path, rt.handler)
		}
	}
	for _, child := range g.children {
		child.Mount(rg)
	}
}

// Routes lists "METHOD /path" for every route relative to the group's parent
func (g *Group) Routes() []string {
	var out []string
	g.collect("", &out)
	return out
}

func (g *Group) collect(base string, out *[]string) {
	base = joinPath(base, g.prefix)
	for _, rt := range g.routes {
		for _, m := range rt.methods {
			*out = append(*out, m+" "+joinPath(base, rt.path))
		}
	}
	for _, child := range g.children {
		child.collect(base, out)
	}
}

func joinPath(base, rel string) string {
	if rel == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return path.Join("/", base, rel)
}
