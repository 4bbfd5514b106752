package controllers

import (
	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/resources"
	"github.com/shashiranjanraj/devburger/app/services"
	"github.com/shashiranjanraj/devburger/pkg/ctx"
	"github.com/shashiranjanraj/devburger/pkg/rbac"
	"github.com/shashiranjanraj/devburger/pkg/resource"
	"github.com/shashiranjanraj/devburger/pkg/validate"
)

var (
	categoryStoreSchema = validate.Schema{
		{Name: "name", Required: true, Kind: validate.String},
		{Name: "file", Required: true, Kind: validate.File},
	}
	categoryUpdateSchema = validate.Schema{
		{Name: "name", Kind: validate.String},
		{Name: "file", Kind: validate.File},
	}
)

type CategoryController struct {
	categories *services.CategoryService
	gate       *rbac.Gate
	view       resources.Category
}

func NewCategoryController(categories *services.CategoryService, gate *rbac.Gate, baseURL string) *CategoryController {
	return &CategoryController{categories: categories, gate: gate, view: resources.Category{BaseURL: baseURL}}
}

func (cc *CategoryController) Index(c *ctx.Context) {
	categories, err := cc.categories.List(c.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Many[models.Category](cc.view, categories))
}

func (cc *CategoryController) Store(c *ctx.Context) {
	body, err := c.Bind(categoryStoreSchema)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := cc.gate.RequireAdmin(c.Context(), c.UserID()); err != nil {
		respondError(c, err)
		return
	}

	category, err := cc.categories.Create(c.Context(), body.String("name"), body.File("file"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resource.One[models.Category](cc.view, *category))
}

func (cc *CategoryController) Update(c *ctx.Context) {
	body, err := c.Bind(categoryUpdateSchema)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := cc.gate.RequireAdmin(c.Context(), c.UserID()); err != nil {
		respondError(c, err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		respondError(c, services.ErrCategoryNotFound)
		return
	}

	var in services.CategoryUpdate
	if body.Has("name") {
		name := body.String("name")
		in.Name = &name
	}
	in.Image = body.File("file")

	category, err := cc.categories.Update(c.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.One[models.Category](cc.view, *category))
}
