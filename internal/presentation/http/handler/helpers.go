package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopledger-api/pkg/utils"
)

// GetActor returns who performs the request
func GetActor(c *gin.Context) string {
	return middleware.GetActor(c)
}

// paramUUID parses a path parameter as a UUID
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional query parameter as a UUID
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	id, err := utils.ParseOptionalUUID(c.Query(name))
	if err != nil {
		return nil, false
	}
	return id, true
}
