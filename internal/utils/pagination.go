package utils

import (
	"errors"
	"strconv"

	"github.com/dylanmckay04/project-management-api/internal/constants"
	"github.com/gin-gonic/gin"
)

var ErrInvalidPagination = errors.New("skip and limit must be non-negative integers")

// PaginationParams holds offset/limit pagination parameters
type PaginationParams struct {
	Skip  int
	Limit int
}

// GetPaginationParams reads skip and limit from the query string. No upper
// bound is applied to limit.
func GetPaginationParams(c *gin.Context) (PaginationParams, error) {
	skip, err := queryInt(c, "skip", constants.DefaultSkip)
	if err != nil {
		return PaginationParams{}, err
	}
	limit, err := queryInt(c, "limit", constants.DefaultLimit)
	if err != nil {
		return PaginationParams{}, err
	}

	return PaginationParams{
		Skip:  skip,
		Limit: limit,
	}, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, ErrInvalidPagination
	}
	return value, nil
}
