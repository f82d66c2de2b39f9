package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resourceUC "github.com/khoahotran/portfolio-api/internal/application/usecase/resource"
	"github.com/khoahotran/portfolio-api/internal/domain/resource"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type operation int

const (
	opRead operation = iota
	opCreate
	opUpdate
	opDelete
)

// ResourceHandler serves the whole CRUD contract for one resource kind. The
// method set and error mapping are identical for every kind; the descriptor
// supplies the differences (field table, sort key, singleton, deletable).
type ResourceHandler struct {
	kind resource.Kind
	svc  *resourceUC.Service
	log  logger.Logger
}

func NewResourceHandler(kind resource.Kind, svc *resourceUC.Service, log logger.Logger) *ResourceHandler {
	return &ResourceHandler{kind: kind, svc: svc, log: log}
}

func (h *ResourceHandler) Register(r gin.IRouter) {
	r.Any(h.kind.Path, h.dispatch)
}

func (h *ResourceHandler) dispatch(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		// Preflight short-circuits before any database access.
		c.Status(http.StatusOK)
	case http.MethodGet:
		h.get(c)
	case http.MethodPost:
		if h.kind.Singleton {
			h.methodNotAllowed(c)
			return
		}
		h.create(c)
	case http.MethodPut:
		h.update(c)
	case http.MethodDelete:
		if !h.kind.Deletable {
			h.methodNotAllowed(c)
			return
		}
		h.delete(c)
	default:
		h.methodNotAllowed(c)
	}
}

func (h *ResourceHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	if h.kind.Singleton {
		doc, err := h.svc.GetSingleton(ctx, h.kind)
		if err != nil {
			h.fail(c, opRead, err, nil)
			return
		}
		respondData(c, http.StatusOK, doc)
		return
	}

	if id := c.Query("id"); id != "" {
		doc, err := h.svc.Get(ctx, h.kind, id)
		if err != nil {
			h.fail(c, opRead, err, nil)
			return
		}
		respondData(c, http.StatusOK, doc)
		return
	}

	docs, err := h.svc.List(ctx, h.kind)
	if err != nil {
		h.fail(c, opRead, err, nil)
		return
	}
	respondData(c, http.StatusOK, docs)
}

func (h *ResourceHandler) create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, opCreate, apperror.NewInvalidInput("Invalid JSON body"), nil)
		return
	}

	doc, err := h.svc.Create(c.Request.Context(), h.kind, body)
	if err != nil {
		h.fail(c, opCreate, err, body)
		return
	}
	respondData(c, http.StatusCreated, doc)
}

func (h *ResourceHandler) update(c *gin.Context) {
	ctx := c.Request.Context()

	if h.kind.Singleton {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			h.fail(c, opUpdate, apperror.NewInvalidInput("Invalid JSON body"), nil)
			return
		}
		// Upsert: the singleton is created on first write and the status stays
		// 200 either way, which is the contract clients already rely on.
		doc, err := h.svc.UpsertSingleton(ctx, h.kind, body)
		if err != nil {
			h.fail(c, opUpdate, err, body)
			return
		}
		respondData(c, http.StatusOK, doc)
		return
	}

	id := c.Query("id")
	if id == "" {
		h.fail(c, opUpdate, apperror.NewInvalidInput(
			fmt.Sprintf("%s ID is required for update", h.kind.Name)), nil)
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, opUpdate, apperror.NewInvalidInput("Invalid JSON body"), nil)
		return
	}

	doc, err := h.svc.Update(ctx, h.kind, id, body)
	if err != nil {
		h.fail(c, opUpdate, err, body)
		return
	}
	respondData(c, http.StatusOK, doc)
}

func (h *ResourceHandler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		h.fail(c, opDelete, apperror.NewInvalidInput(
			fmt.Sprintf("%s ID is required for deletion", h.kind.Name)), nil)
		return
	}

	doc, err := h.svc.Delete(c.Request.Context(), h.kind, id)
	if err != nil {
		h.fail(c, opDelete, err, nil)
		return
	}
	respondDeleted(c, http.StatusOK, doc, fmt.Sprintf("%s deleted successfully", h.kind.Name))
}

func (h *ResourceHandler) methodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed,
		fmt.Sprintf("Method %s not allowed", c.Request.Method), nil)
}

// fail logs the diagnostic record and maps the error tag onto the contract's
// status code and stable message. Internal detail never reaches the client.
func (h *ResourceHandler) fail(c *gin.Context, op operation, err error, payload any) {
	fields := []zap.Field{
		zap.String("resource", h.kind.LowerName()),
		zap.String("request_id", requestIDFromGinContext(c)),
	}
	if payload != nil {
		fields = append(fields, zap.Any("payload", payload))
	}

	status := apperror.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", err, fields...)
	} else {
		h.log.Warn("request rejected", append(fields, zap.String("reason", err.Error()))...)
	}

	switch {
	case errors.Is(err, apperror.ErrUnavailable), errors.Is(err, apperror.ErrConfig):
		respondError(c, http.StatusServiceUnavailable,
			"Database connection failed. Please try again later.", nil)
	case errors.Is(err, apperror.ErrNotFound):
		respondError(c, http.StatusNotFound, fmt.Sprintf("%s not found", h.kind.Name), nil)
	case errors.Is(err, apperror.ErrMalformedID):
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("Invalid %s ID format", h.kind.LowerName()), nil)
	case errors.Is(err, apperror.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, apperror.Message(err), apperror.Details(err))
	default:
		respondError(c, http.StatusInternalServerError, h.failureMessage(op), nil)
	}
}

func (h *ResourceHandler) failureMessage(op operation) string {
	lower := h.kind.LowerName()
	switch op {
	case opCreate:
		return fmt.Sprintf("Failed to create %s", lower)
	case opUpdate:
		if h.kind.Singleton {
			return fmt.Sprintf("Failed to update %s data", lower)
		}
		return fmt.Sprintf("Failed to update %s", lower)
	case opDelete:
		return fmt.Sprintf("Failed to delete %s", lower)
	}
	return fmt.Sprintf("Failed to retrieve %s data", lower)
}
