package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ActorHeader names who performs a request. It is recorded in the audit
	// trail and is not authenticated.
	ActorHeader  = "X-Actor"
	DefaultActor = "system"

	actorKey = "actor"
)

// ActorMiddleware stores the acting user from the X-Actor header
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = DefaultActor
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// GetActor returns the actor set by ActorMiddleware
func GetActor(c *gin.Context) string {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(string); ok {
			return actor
		}
	}
	return DefaultActor
}
