package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/app/models"
	"github.com/quizhub/quizhub/app/repository"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/middleware"
	"github.com/quizhub/quizhub/internal/pkg/upload"
)

// ResourceController serves resource registration and retrieval.
type ResourceController struct {
	resources repository.ResourceRepository
}

// NewResourceController creates a new resource controller instance
func NewResourceController(resources repository.ResourceRepository) *ResourceController {
	return &ResourceController{resources: resources}
}

type createResourceRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=255"`
	MimeType    string `json:"mime_type" validate:"required,max=100"`
	Path        string `json:"path" validate:"required,max=255"`
}

// HandleCreate records a new resource owned by the current user.
//
// POST /resource/create
func (ctrl *ResourceController) HandleCreate(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)

	var req createResourceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := upload.ValidateResourceType(req.Name, req.MimeType); err != nil {
		return httperr.Validation(map[string]string{"mime_type": err.Error()})
	}

	resource := models.Resource{
		Name:        req.Name,
		Description: req.Description,
		MimeType:    req.MimeType,
		Path:        req.Path,
		Visibility:  models.RESOURCE_VISIBILITY_PRIVATE,
		OwnerID:     user.ID,
	}
	if err := ctrl.resources.Create(&resource); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resource)
}

// HandleGet returns a resource visible to the current user.
//
// GET /resource/:id
func (ctrl *ResourceController) HandleGet(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return httperr.ResourceNotFound
	}

	resource, err := ctrl.resources.GetByID(uint(id))
	if err != nil {
		return err
	}
	if resource == nil {
		return httperr.ResourceNotFound
	}
	if resource.OwnerID != user.ID && resource.Visibility != models.RESOURCE_VISIBILITY_PUBLIC {
		return httperr.ResourceNotFound
	}

	return c.JSON(resource)
}
