package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/devburger/app/services"
	"github.com/shashiranjanraj/devburger/pkg/bind"
	"github.com/shashiranjanraj/devburger/pkg/ctx"
	"github.com/shashiranjanraj/devburger/pkg/logger"
	"github.com/shashiranjanraj/devburger/pkg/payment"
	"github.com/shashiranjanraj/devburger/pkg/storage"
	"github.com/shashiranjanraj/devburger/pkg/tracking"
	"github.com/shashiranjanraj/devburger/pkg/validate"
)

const (
	msgBadCredentials    = "Make sure your email and password are correct"
	msgCategoryID        = "Make sure your category ID is correct"
	msgProductID         = "Make sure your product ID is correct"
	msgOrderNotFound     = "Order not found"
	msgEmailTaken        = "This email is already in use"
	msgCategoryTaken     = "This category already exists"
	msgEmptyOrder        = "None of the ordered products exist"
	msgMalformed         = "Malformed request body"
	msgInternal          = "Internal Server Error"
	msgStatusUpdated     = "Status updated successfully"
	msgInvalidImageField = "The file must be a jpg, png, gif, bmp or tiff image."
)

// respondError maps a service or binding error to its HTTP answer.
// Unknown errors are logged, reported and answered with a bare 500.
func respondError(c *ctx.Context, err error) {
	var verr *validate.Error
	var gerr *payment.GatewayError

	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, bind.ErrMalformed):
		c.Error(http.StatusBadRequest, msgMalformed)
	case errors.Is(err, storage.ErrInvalidImage):
		c.ValidationError(validate.Errors{"file": msgInvalidImageField})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(msgBadCredentials)
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, services.ErrEmailTaken):
		c.Error(http.StatusConflict, msgEmailTaken)
	case errors.Is(err, services.ErrCategoryTaken):
		c.Error(http.StatusConflict, msgCategoryTaken)
	case errors.Is(err, services.ErrCategoryNotFound):
		c.Error(http.StatusBadRequest, msgCategoryID)
	case errors.Is(err, services.ErrProductNotFound):
		c.Error(http.StatusBadRequest, msgProductID)
	case errors.Is(err, services.ErrEmptyOrder):
		c.Error(http.StatusBadRequest, msgEmptyOrder)
	case errors.Is(err, services.ErrOrderNotFound):
		c.NotFound(msgOrderNotFound)
	case errors.As(err, &gerr):
		c.Error(http.StatusBadGateway, gerr.Message)
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		tracking.CaptureException(c.Context(), err, map[string]string{
			"method": c.R.Method,
			"path":   c.R.URL.Path,
		})
		c.Error(http.StatusInternalServerError, msgInternal)
	}
}

// idParam reads a numeric {id}. ok is false for anything that is not a
// positive integer.
func idParam(c *ctx.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
