package handlers

import (
	"errors"
	"strconv"

	"exoplanet-prediction-api/middleware"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type PaginationParams struct {
	Skip  int
	Limit int
}

// ParsePagination reads skip (>= 0) and limit (1..MaxLimit). Out of range
// values are rejected rather than clamped.
func ParsePagination(c *gin.Context) (PaginationParams, error) {
	p := PaginationParams{Limit: DefaultLimit}

	if skipStr := c.Query("skip"); skipStr != "" {
		s, err := strconv.Atoi(skipStr)
		if err != nil || s < 0 {
			return p, errors.New("skip must be an integer >= 0")
		}
		p.Skip = s
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > MaxLimit {
			return p, errors.New("limit must be an integer between 1 and 1000")
		}
		p.Limit = l
	}

	return p, nil
}

// resolveOwner prefers the authenticated user and falls back to the user_id
// query parameter. A nil owner means no scoping.
func resolveOwner(c *gin.Context) (*uint, error) {
	if user, ok := middleware.CurrentUser(c); ok {
		id := user.ID
		return &id, nil
	}
	raw := c.Query("user_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil, errors.New("user_id must be a positive integer")
	}
	owner := uint(id)
	return &owner, nil
}
