package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookstore-api/internal/shared/httpapi"

	catalogapp "github.com/bookhaven/bookstore-api/internal/domains/catalog/application"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	usersapp "github.com/bookhaven/bookstore-api/internal/domains/users/application"
	userports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

const internalErrorMessage = "something went wrong, please try again later"

// respondOrderError maps orders application errors onto the storefront
// envelope. Persistence detail never reaches the client.
func respondOrderError(c *gin.Context, err error) {
	var invalidStatus *ordersdomain.InvalidStatusError
	switch {
	case errors.As(err, &invalidStatus):
		httpapi.Fail(c, http.StatusBadRequest, invalidStatus.Error())
	case errors.Is(err, ordersapp.ErrInvalidInput):
		httpapi.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ordersports.ErrNotFound):
		httpapi.Fail(c, http.StatusNotFound, "order not found")
	case errors.Is(err, ordersports.ErrVersionConflict):
		httpapi.Fail(c, http.StatusConflict, "order was modified concurrently, reload and retry")
	default:
		httpapi.Fail(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		httpapi.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogports.ErrNotFound):
		httpapi.Fail(c, http.StatusNotFound, "book not found")
	default:
		httpapi.Fail(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usersapp.ErrInvalidInput):
		httpapi.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, usersapp.ErrAuthentication):
		httpapi.Unauthorized(c)
	case errors.Is(err, userports.ErrNotFound):
		httpapi.Fail(c, http.StatusNotFound, "user not found")
	default:
		httpapi.Fail(c, http.StatusInternalServerError, internalErrorMessage)
	}
}
