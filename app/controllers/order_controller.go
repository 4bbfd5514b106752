package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/devburger/app/services"
	"github.com/shashiranjanraj/devburger/pkg/ctx"
	"github.com/shashiranjanraj/devburger/pkg/payment"
	"github.com/shashiranjanraj/devburger/pkg/rbac"
	"github.com/shashiranjanraj/devburger/pkg/validate"
)

var (
	orderStoreSchema = validate.Schema{
		{Name: "products", Required: true, Kind: validate.Array, Items: validate.Schema{
			{Name: "id", Required: true, Kind: validate.Integer},
			{Name: "quantity", Required: true, Kind: validate.Integer, Rules: "gte=1"},
		}},
	}
	orderUpdateSchema = validate.Schema{
		{Name: "status", Required: true, Kind: validate.String},
	}
	paymentIntentSchema = validate.Schema{
		{Name: "products", Required: true, Kind: validate.Array, Items: validate.Schema{
			{Name: "id", Required: true, Kind: validate.Integer},
			{Name: "quantity", Required: true, Kind: validate.Integer, Rules: "gte=1"},
			{Name: "price", Required: true, Kind: validate.Number, Rules: "gte=0"},
		}},
	}
)

type OrderController struct {
	orders *services.OrderService
	gate   *rbac.Gate
}

func NewOrderController(orders *services.OrderService, gate *rbac.Gate) *OrderController {
	return &OrderController{orders: orders, gate: gate}
}

// Store places an order for the caller. Only ids and quantities are read
// from the body.
func (oc *OrderController) Store(c *ctx.Context) {
	body, err := c.Bind(orderStoreSchema)
	if err != nil {
		respondError(c, err)
		return
	}

	items := body.Items("products")
	lines := make([]services.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, services.OrderLine{
			ProductID: uint(item.Int64("id")),
			Quantity:  item.Int64("quantity"),
		})
	}

	order, err := oc.orders.Place(c.Context(), *c.Identity(), lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(order)
}

func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.orders.List(c.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(orders)
}

func (oc *OrderController) Update(c *ctx.Context) {
	body, err := c.Bind(orderUpdateSchema)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := oc.gate.RequireAdmin(c.Context(), c.UserID()); err != nil {
		respondError(c, err)
		return
	}

	if err := oc.orders.UpdateStatus(c.Context(), c.Param("id"), body.String("status")); err != nil {
		respondError(c, err)
		return
	}
	c.Message(msgStatusUpdated)
}

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// Store creates a payment intent for the cart in the body. Prices are taken
// as sent by the client, unlike order placement.
func (pc *PaymentController) Store(c *ctx.Context) {
	body, err := c.Bind(paymentIntentSchema)
	if err != nil {
		respondError(c, err)
		return
	}

	items := body.Items("products")
	lines := make([]payment.Line, 0, len(items))
	for _, item := range items {
		price, err := decimal.NewFromString(item.String("price"))
		if err != nil {
			respondError(c, validate.Errors{"products.price": "The price field must be a number."}.Err())
			return
		}
		lines = append(lines, payment.Line{Price: price, Quantity: item.Int64("quantity")})
	}

	intent, err := pc.payments.CreateIntent(c.Context(), lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(map[string]string{
		"clientSecret":   intent.ClientSecret,
		"dpmCheckerLink": intent.DPMCheckerLink(),
	})
}
