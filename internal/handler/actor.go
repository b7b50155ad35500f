package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cityhealth/directory-api/internal/model"
)

// ActorFrom rebuilds the acting user from the values the auth middleware
// stored on the context. The second return is false when the request never
// passed authentication.
func ActorFrom(c *gin.Context) (model.Actor, bool) {
	userID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		return model.Actor{}, false
	}
	return model.Actor{
		UserID: userID,
		Role:   model.UserRole(c.GetString("userRole")),
	}, true
}
