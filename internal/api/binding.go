package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/service"
)

var registerFieldNames sync.Once

// useJSONFieldNames makes validator report fields by their json name
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the request body into obj. An empty body is treated as
// an empty object. Decode and validation failures come back as
// service.ValidationErrors.
func bindJSON(c *gin.Context, obj interface{}) error {
	useJSONFieldNames()
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return nil
	}
	return bindingError(err)
}

func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make(service.ValidationErrors, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, service.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.ValidationErrors{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("invalid type, expected %s", typeErr.Type.Kind()),
		}}
	}
	return service.ValidationErrors{{Field: "body", Message: "malformed JSON: " + err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	}
	return "invalid value"
}

// pathID parses the :id parameter. Ids that cannot name a row are reported
// as not found.
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}

// queryIDs parses a comma separated list of ids from the named query
// parameter. A missing or empty parameter yields nil.
func queryIDs(c *gin.Context, name string) ([]uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, service.ValidationError{Field: name, Message: "enter a comma separated list of ids"}
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// queryFlag reads an integer flag such as assigned_only=1. Missing means false.
func queryFlag(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, service.ValidationError{Field: name, Message: "enter a whole number"}
	}
	return n != 0, nil
}

// owner returns the authenticated caller or attaches ErrUnauthenticated.
func owner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = c.Error(service.ErrUnauthenticated)
	}
	return id, ok
}
