// Package resources shapes models for API responses. Image URLs are
// derived here from the stored path and never persisted.
package resources

import (
	"strings"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/pkg/resource"
)

const (
	ProductFilePrefix  = "product-file"
	CategoryFilePrefix = "category-file"
)

// ImageURL joins base, prefix and path. An empty path gives an empty URL.
func ImageURL(base, prefix, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + prefix + "/" + path
}

// User never exposes the password hash.
type User struct{}

func (User) ToArray(u models.User) resource.Map {
	return resource.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"admin": u.Admin,
	}
}

type Category struct {
	BaseURL string
}

func (r Category) ToArray(c models.Category) resource.Map {
	return resource.Map{
		"id":         c.ID,
		"name":       c.Name,
		"path":       c.Path,
		"url":        ImageURL(r.BaseURL, CategoryFilePrefix, c.Path),
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

type Product struct {
	BaseURL string
}

func (r Product) ToArray(p models.Product) resource.Map {
	out := resource.Map{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"path":        p.Path,
		"offer":       p.Offer,
		"url":         ImageURL(r.BaseURL, ProductFilePrefix, p.Path),
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
	if p.Category != nil {
		out["category"] = resource.Map{"id": p.Category.ID, "name": p.Category.Name}
	} else {
		out["category"] = nil
	}
	return out
}
