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
	productStoreSchema = validate.Schema{
		{Name: "name", Required: true, Kind: validate.String},
		{Name: "price", Required: true, Kind: validate.Integer, Rules: "gte=0"},
		{Name: "category_id", Required: true, Kind: validate.Integer, Rules: "gte=1"},
		{Name: "offer", Kind: validate.Boolean},
		{Name: "file", Required: true, Kind: validate.File},
	}
	productUpdateSchema = validate.Schema{
		{Name: "name", Kind: validate.String},
		{Name: "price", Kind: validate.Integer, Rules: "gte=0"},
		{Name: "category_id", Kind: validate.Integer, Rules: "gte=1"},
		{Name: "offer", Kind: validate.Boolean},
		{Name: "file", Kind: validate.File},
	}
)

type ProductController struct {
	products *services.ProductService
	gate     *rbac.Gate
	view     resources.Product
}

func NewProductController(products *services.ProductService, gate *rbac.Gate, baseURL string) *ProductController {
	return &ProductController{products: products, gate: gate, view: resources.Product{BaseURL: baseURL}}
}

func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.products.List(c.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Many[models.Product](pc.view, products))
}

func (pc *ProductController) Store(c *ctx.Context) {
	body, err := c.Bind(productStoreSchema)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := pc.gate.RequireAdmin(c.Context(), c.UserID()); err != nil {
		respondError(c, err)
		return
	}

	product, err := pc.products.Create(c.Context(), services.ProductInput{
		Name:       body.String("name"),
		Price:      body.Int64("price"),
		CategoryID: uint(body.Int64("category_id")),
		Offer:      body.Bool("offer"),
		Image:      body.File("file"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resource.One[models.Product](pc.view, *product))
}

// Update changes only the fields present in the body.
func (pc *ProductController) Update(c *ctx.Context) {
	body, err := c.Bind(productUpdateSchema)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := pc.gate.RequireAdmin(c.Context(), c.UserID()); err != nil {
		respondError(c, err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		respondError(c, services.ErrProductNotFound)
		return
	}

	var in services.ProductUpdate
	if body.Has("name") {
		v := body.String("name")
		in.Name = &v
	}
	if body.Has("price") {
		v := body.Int64("price")
		in.Price = &v
	}
	if body.Has("category_id") {
		v := uint(body.Int64("category_id"))
		in.CategoryID = &v
	}
	if body.Has("offer") {
		v := body.Bool("offer")
		in.Offer = &v
	}
	in.Image = body.File("file")

	product, err := pc.products.Update(c.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.One[models.Product](pc.view, *product))
}
