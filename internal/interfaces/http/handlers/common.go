// Package handlers implements the REST surface of the API server.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/interfaces/http/middleware"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// ErrorBody is the wire form of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListMeta carries pagination totals on list responses.
type ListMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// listResponse wraps a page of items.
type listResponse struct {
	Items interface{} `json:"items"`
	Meta  ListMeta    `json:"meta"`
}

// respondError maps an error to its HTTP status via the AppError code.
// Server-side codes are masked so internals do not leak to clients.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, ErrorBody{Code: code.String(), Message: message})
}

// respondList writes one page of items with its meta block.
func respondList(c *gin.Context, items interface{}, total int, p common.Pagination) {
	c.JSON(http.StatusOK, listResponse{
		Items: items,
		Meta:  ListMeta{Page: p.Page, PageSize: p.PageSize, Total: total},
	})
}

// pagination reads page/page_size query params.
func pagination(c *gin.Context) common.Pagination {
	p := common.Pagination{}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil {
		p.PageSize = v
	}
	return p.Normalize()
}

// identity returns the authenticated caller or writes a 401.
func identity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, errors.Unauthorized("missing identity"))
	}
	return id, ok
}
