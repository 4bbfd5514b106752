package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGroupMiddlewareOrder(t *testing.T) {
	r := New()
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	g := r.Group("/", mw("group"))
	g.Put("/orders/{id}", "orders.update", ok("updated"), mw("route"))

	rec := serve(r, http.MethodPut, "/orders/1")
	assert.Equal(t, "updated", rec.Body.String())
	assert.Equal(t, []string{"group", "route"}, order)
}

func TestNamedRoutes(t *testing.T) {
	r := New()
	r.Get("/products", "products.index", ok(""))
	r.Group("/").Put("/products/{id}", "products.update", ok(""))

	path, found := r.Path("products.update")
	require.True(t, found)
	assert.Equal(t, "/products/{id}", path)

	url, err := r.URL("products.update", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/products/7", url)

	_, err = r.URL("products.update", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesTable(t *testing.T) {
	r := New()
	r.Post("/users", "users.store", ok(""))
	r.Get("/categories", "categories.index", ok(""))
	r.Post("/categories", "categories.store", ok(""))
	r.Mount("/product-file", "files.products", http.NotFoundHandler())

	routes := r.Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, Route{Method: http.MethodGet, Path: "/categories", Name: "categories.index"}, routes[0])
	assert.Equal(t, Route{Method: http.MethodPost, Path: "/categories", Name: "categories.store"}, routes[1])
	assert.Equal(t, "/product-file/*", routes[2].Path)
}

func TestMountStripsPrefix(t *testing.T) {
	r := New()
	r.Mount("/category-file", "files.categories", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, req.URL.Path)
	}))

	rec := serve(r, http.MethodGet, "/category-file/abc.png")
	assert.Equal(t, "/abc.png", rec.Body.String())
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath())
	assert.Equal(t, "/", joinPath("/", ""))
	assert.Equal(t, "/a/b", joinPath("/a/", "/b/"))
}
