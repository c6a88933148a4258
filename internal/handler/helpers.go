package handler

import (
	"net/http"
	"reflect"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// shopContext extracts the caller's shop and staff ids from the JWT claims.
// Returns false after writing a 401 when the token carries malformed ids.
func shopContext(c *gin.Context) (shopID, staffID uuid.UUID, ok bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return uuid.Nil, uuid.Nil, false
	}
	shopID, err := uuid.Parse(claims.ShopID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token carries no valid shop"))
		return uuid.Nil, uuid.Nil, false
	}
	staffID, err = uuid.Parse(claims.StaffID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token carries no valid staff id"))
		return uuid.Nil, uuid.Nil, false
	}
	return shopID, staffID, true
}

// pathUUID parses a :param path segment as a UUID, answering 400 on garbage.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
