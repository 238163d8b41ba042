package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the uniform envelope for every API reply. Msg carries the
// human-readable outcome; on failure it is the message clients surface
// to the user verbatim.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

const (
	CodeSuccess   = 200
	CodeCreated   = 201
	CodeNoContent = 204

	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeConflict      = 409
	CodeInternalError = 500
)

// Success writes a 200 reply.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Msg: "ok", Data: data})
}

// Created writes a 201 reply.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: CodeCreated, Msg: "created", Data: data})
}

// NoContent writes a 200 reply with no payload, used for deletes so the
// envelope (and its message) still reaches the client.
func NoContent(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Code: CodeNoContent, Msg: "deleted"})
}

// BadRequest writes a 400 reply.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: CodeBadRequest, Msg: msg})
}

// Unauthorized writes a 401 reply.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: CodeUnauthorized, Msg: msg})
}

// Forbidden writes a 403 reply.
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: CodeForbidden, Msg: msg})
}

// NotFound writes a 404 reply.
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: CodeNotFound, Msg: msg})
}

// Conflict writes a 409 reply.
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, Response{Code: CodeConflict, Msg: msg})
}

// InternalError writes a 500 reply.
func InternalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: CodeInternalError, Msg: msg})
}
