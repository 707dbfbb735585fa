package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"liquorpos/internal/apierror"
	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
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

// intQuery parses an integer query parameter, falling back to def.
func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseDate accepts RFC3339 or bare YYYY-MM-DD values. On failure it writes
// the 400 response itself and returns ok=false.
func parseDate(c *gin.Context, name, value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	c.JSON(http.StatusBadRequest, apierror.New("invalid "+name+": use RFC3339 or YYYY-MM-DD"))
	return time.Time{}, false
}

// respondServiceError maps the domain error taxonomy onto HTTP statuses.
// Unknown errors become 500s with a generic detail so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTillNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNegativeBalance),
		errors.Is(err, service.ErrTillAlreadyOpen),
		errors.Is(err, service.ErrDuplicateUPC),
		errors.Is(err, service.ErrShiftAlreadyOpen):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrZeroDelta),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrNotVoidable),
		errors.Is(err, service.ErrTillNotOpen),
		errors.Is(err, service.ErrCriticalOverShort),
		errors.Is(err, service.ErrNoOpenShift):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
