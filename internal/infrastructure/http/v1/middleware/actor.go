package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "stockcore/internal/core/context"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"
)

// Actor middleware propagates the caller identity set by the upstream
// gateway. Authentication itself happens there; this core only records who
// performed the call, for movement and history attribution.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(HeaderActorID)
		if actorID == "" {
			c.Next()
			return
		}

		actor := &appctx.Actor{
			UserID:      actorID,
			DisplayName: c.GetHeader(HeaderActorName),
		}

		ctx := appctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
