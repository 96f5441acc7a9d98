package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker-sync/internal/jwt"
	"timetracker-sync/internal/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthRoutes registers the local login endpoint. This stands in for the
// upstream directory login; the session it issues is what the OAuth
// callback and sync endpoints key on.
func AuthRoutes(r *gin.RouterGroup) {

	r.POST("/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		provider, err := getStorage(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		user, err := provider.GetUserByName(c.Request.Context(), req.Username)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if user == nil {
			AbortWithError(c, ErrInvalidCredentials)
			return
		}

		ok, err := utils.VerifyPassword(req.Password, user.PasswordHash)
		if err != nil || !ok {
			AbortWithError(c, ErrInvalidCredentials)
			return
		}

		token, err := jwt.GenerateJWT(jwt.NewSessionClaim(user.ID))
		if err != nil {
			AbortWithError(c, ErrInternalServer)
			return
		}

		setAuthCookie(c, token)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"user_id": user.ID,
		})
	})
}
