package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/pkg/types"
)

// GetClaims returns the JWT claims set by the auth middleware.
func GetClaims(c *gin.Context) (*types.Claims, error) {
	val, exists := c.Get("claims")
	if !exists {
		return nil, errors.New("missing claims in context")
	}
	claims, ok := val.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid claims in context")
	}
	return claims, nil
}

// ParseIDParam parses a numeric URL parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return uint(id), nil
}
