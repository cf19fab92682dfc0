// Package utils provides utility functions to support various operations within the application.
package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within an int for every accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// ParsePaginationParams extracts the 'page' and 'limit' parameters from the request's query parameters.
// Missing, unparsable or non-positive values fall back to the defaults. Page is capped at MaxPage
// and limit at MaxLimit.
func ParsePaginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query(PageParamKey))
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(c.Query(PageParamKey), "-"):
		page = MaxPage
	case err != nil || page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}

	limit, err := strconv.Atoi(c.Query(LimitParamKey))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

// Offset returns the number of records preceding the given 1-indexed page, saturating at math.MaxInt.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// PageInfo computes the total number of pages and whether records follow the returned ones.
func PageInfo(page, limit, returned, total int) (totalPages int, hasMore bool) {
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	hasMore = Offset(page, limit) < total-returned
	return totalPages, hasMore
}
