package httputil

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination bounds for list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var (
	// ErrInvalidOffset is returned for a negative or non-numeric offset.
	ErrInvalidOffset = errors.New("invalid offset parameter: must be a non-negative integer")

	// ErrInvalidLimit is returned for a limit outside [1, MaxLimit].
	ErrInvalidLimit = fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxLimit)
)

// ParsePagination reads the offset and limit query parameters. Offset defaults to 0 and
// limit to DefaultLimit. Both are returned as zero on error.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return 0, 0, ErrInvalidOffset
	}

	limit, err = queryInt(c, "limit", DefaultLimit)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, ErrInvalidLimit
	}

	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
