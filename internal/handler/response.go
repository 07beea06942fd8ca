package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/apperr"
	"github.com/flicky/storefront-api/internal/middleware"
)

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func noContent(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{Success: true})
}

func fail(c *gin.Context, err error) {
	middleware.Abort(c, apperr.From(err))
}

func bindFailed(c *gin.Context, err error) {
	middleware.Abort(c, apperr.Validation(err.Error()))
}

// pathID parses a uuid path parameter, writing a validation error on failure.
func pathID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.Abort(c, apperr.Validation("invalid "+what+" ID"))
		return uuid.Nil, false
	}
	return id, true
}
