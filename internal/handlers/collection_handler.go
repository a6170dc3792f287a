package handlers

import (
	stderrors "errors"
	"net/http"

	"grocery-manager/internal/dto"
	"grocery-manager/internal/errors"
	"grocery-manager/internal/models"
	"grocery-manager/internal/repositories"

	"github.com/labstack/echo/v4"
)

// CollectionHandler serves the JSON-server style resources: the four item
// collections keyed by category and the titles collection.
type CollectionHandler struct {
	itemRepo  repositories.ItemRepositoryInterface
	titleRepo repositories.TitleRepositoryInterface
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(
	itemRepo repositories.ItemRepositoryInterface,
	titleRepo repositories.TitleRepositoryInterface,
) *CollectionHandler {
	return &CollectionHandler{
		itemRepo:  itemRepo,
		titleRepo: titleRepo,
	}
}

// Register mounts the collection routes on g
func (h *CollectionHandler) Register(g *echo.Group) {
	g.GET("/:resource", h.List)
	g.POST("/:resource", h.Create)
	g.GET("/:resource/:id", h.Get)
	g.PUT("/:resource/:id", h.Replace)
	g.DELETE("/:resource/:id", h.Delete)
}

// List returns every record of the resource, optionally filtered by
// ?userId= and a case-insensitive ?q= substring, in insertion order.
func (h *CollectionHandler) List(c echo.Context) error {
	var filters dto.ListFilters
	if err := c.Bind(&filters); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("invalid query parameters"))
	}
	filter := repositories.ListFilter{UserID: filters.UserID, Query: filters.Query}

	resource := c.Param("resource")
	if resource == models.ResourceTitles {
		titles, err := h.titleRepo.List(filter)
		if err != nil {
			return SendDatabaseError(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewTitleRecords(titles))
	}

	category, ok := itemCategory(resource)
	if !ok {
		return sendUnknownResource(c, resource)
	}

	items, err := h.itemRepo.List(category, filter)
	if err != nil {
		return SendDatabaseError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewItemRecords(items))
}

// Get returns a single record
func (h *CollectionHandler) Get(c echo.Context) error {
	resource, id := c.Param("resource"), c.Param("id")

	if resource == models.ResourceTitles {
		title, err := h.titleRepo.GetByID(id)
		if err != nil {
			return sendRepositoryError(c, err, errors.TitleNotFound)
		}
		return c.JSON(http.StatusOK, dto.NewTitleRecord(title))
	}

	category, ok := itemCategory(resource)
	if !ok {
		return sendUnknownResource(c, resource)
	}

	item, err := h.itemRepo.GetByID(category, id)
	if err != nil {
		return sendRepositoryError(c, err, errors.ItemNotFound)
	}
	return c.JSON(http.StatusOK, dto.NewItemRecord(item))
}

// Create stores a new record and answers 201 with the assigned id. Any id in
// the body is ignored.
func (h *CollectionHandler) Create(c echo.Context) error {
	resource := c.Param("resource")

	if resource == models.ResourceTitles {
		var req dto.TitleRequest
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}

		title := req.ToModel()
		if err := h.titleRepo.Create(title); err != nil {
			return SendDatabaseError(c, err)
		}
		return c.JSON(http.StatusCreated, dto.NewTitleRecord(title))
	}

	category, ok := itemCategory(resource)
	if !ok {
		return sendUnknownResource(c, resource)
	}

	var req dto.ItemRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	item := req.ToModel(category)
	if err := h.itemRepo.Create(item); err != nil {
		return SendDatabaseError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewItemRecord(item))
}

// Replace overwrites an existing record. 404 when the id is absent; the
// record is never created implicitly.
func (h *CollectionHandler) Replace(c echo.Context) error {
	resource, id := c.Param("resource"), c.Param("id")

	if resource == models.ResourceTitles {
		var req dto.TitleRequest
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}

		title := req.ToModel()
		title.ID = id
		if err := h.titleRepo.Update(title); err != nil {
			return sendRepositoryError(c, err, errors.TitleNotFound)
		}
		return c.JSON(http.StatusOK, dto.NewTitleRecord(title))
	}

	category, ok := itemCategory(resource)
	if !ok {
		return sendUnknownResource(c, resource)
	}

	var req dto.ItemRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	item := req.ToModel(category)
	item.ID = id
	if err := h.itemRepo.Update(item); err != nil {
		return sendRepositoryError(c, err, errors.ItemNotFound)
	}
	return c.JSON(http.StatusOK, dto.NewItemRecord(item))
}

// Delete removes a record and answers 200 with an empty object
func (h *CollectionHandler) Delete(c echo.Context) error {
	resource, id := c.Param("resource"), c.Param("id")

	if resource == models.ResourceTitles {
		if err := h.titleRepo.Delete(id); err != nil {
			return sendRepositoryError(c, err, errors.TitleNotFound)
		}
		return c.JSON(http.StatusOK, map[string]any{})
	}

	category, ok := itemCategory(resource)
	if !ok {
		return sendUnknownResource(c, resource)
	}

	if err := h.itemRepo.Delete(category, id); err != nil {
		return sendRepositoryError(c, err, errors.ItemNotFound)
	}
	return c.JSON(http.StatusOK, map[string]any{})
}

// itemCategory resolves an item collection by its exact resource key
func itemCategory(resource string) (models.Category, bool) {
	category := models.Category(resource)
	return category, category.IsValid()
}

// bindAndValidate decodes the JSON body into req and validates it. When ok
// is false the error response has been written and err is the write result.
func bindAndValidate(c echo.Context, req interface{}) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("request body must be a JSON object"))
	}
	if err := c.Validate(req); err != nil {
		return false, SendValidationError(c, err)
	}
	return true, nil
}

func sendUnknownResource(c echo.Context, resource string) error {
	return SendError(c, errors.ResourceUnknown, errors.WithDetails("unknown resource: "+resource))
}

func sendRepositoryError(c echo.Context, err error, notFound errors.ErrorCode) error {
	if stderrors.Is(err, repositories.ErrNotFound) {
		return SendError(c, notFound)
	}
	return SendDatabaseError(c, err)
}
