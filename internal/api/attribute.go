package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

// AttributeHandler serves the tag or ingredient endpoints. Responses are
// keyed by the kind: {"tags": [...]} for lists and {"tag": {...}} for one.
type AttributeHandler struct {
	attributes service.IAttributeService
	validator  middleware.TokenValidator
}

func NewAttributeHandler(attributes service.IAttributeService, validator middleware.TokenValidator) *AttributeHandler {
	return &AttributeHandler{
		attributes: attributes,
		validator:  validator,
	}
}

func (h *AttributeHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/" + h.attributes.Kind().Table)
	group.Use(middleware.AuthMiddleware(h.validator))
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Rename)
		group.PATCH("/:id", h.Rename)
		group.DELETE("/:id", h.Delete)
	}
}

// List returns the caller's attributes. assigned_only=1 keeps only those
// used by at least one of the caller's recipes.
func (h *AttributeHandler) List(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	assignedOnly, err := queryFlag(c, "assigned_only")
	if err != nil {
		_ = c.Error(err)
		return
	}

	attrs, err := h.attributes.ListAttributes(c.Request.Context(), userID, assignedOnly)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{h.attributes.Kind().Table: attributeViews(attrs)})
}

func (h *AttributeHandler) Get(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	attr, err := h.attributes.GetAttribute(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, attr)
}

// Create returns 201 with a new attribute, or 200 with the caller's
// existing one of the same name.
func (h *AttributeHandler) Create(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	var req types.AttributeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	attr, created, err := h.attributes.CreateAttribute(c.Request.Context(), userID, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respond(c, status, attr)
}

func (h *AttributeHandler) Rename(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.AttributeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	attr, err := h.attributes.RenameAttribute(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, attr)
}

func (h *AttributeHandler) Delete(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.attributes.DeleteAttribute(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AttributeHandler) respond(c *gin.Context, status int, attr *models.Attribute) {
	c.JSON(status, gin.H{h.attributes.Kind().Name: attributeView(*attr)})
}
