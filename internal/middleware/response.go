package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/flicky/storefront-api/internal/apperr"
)

type ErrorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// Abort stops the chain with the error envelope. Internal errors are logged
// by Logger from the context and never leak their cause to the client.
func Abort(c *gin.Context, err *apperr.Error) {
	if err.Kind == apperr.KindInternal {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(err.Kind.HTTPStatus(), ErrorEnvelope{
		Error: ErrorBody{Kind: err.Kind, Code: err.Code, Message: err.Message},
	})
}
