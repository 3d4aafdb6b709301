package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/identity/internal/services"
)

// --- Response Types ---

// ErrorResponse is the error body for requests rejected before they reach
// an account operation.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: services.CodeInvalidInput})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The error is attached to the gin context for the request logger but not
// exposed to the client.
func respondInternalError(c *gin.Context, err error, op string) {
	_ = c.Error(fmt.Errorf("%s: %w", op, err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: services.MsgInternal, Code: services.CodeInternal})
}

// statusForCode maps an operation failure code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case services.CodeInvalidInput:
		return http.StatusBadRequest
	case services.CodeDuplicateAccount:
		return http.StatusConflict
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case services.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondOutput writes an operation result. Successful results use the
// given status, failures the status of their code.
func respondOutput(c *gin.Context, out services.Output, body any, successStatus int) {
	status := successStatus
	if !out.OK {
		status = statusForCode(out.Code)
	}
	c.JSON(status, body)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// maxPage bounds the page number so (page-1)*limit cannot overflow.
const maxPage = 10000

// parsePagination reads page and limit query parameters.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}
