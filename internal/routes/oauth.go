package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	. "timetracker-sync/internal/config"
	"timetracker-sync/internal/jira"
	"timetracker-sync/internal/storage"
)

// trackerForRequest resolves the tracker record and a handshake bound to the
// authenticated user.
func trackerHandshake(c *gin.Context, provider storage.Provider, trackerID, userID int64) (*storage.TicketSystem, *jira.Handshake, error) {
	tracker, err := provider.GetTicketSystem(c.Request.Context(), trackerID)
	if err != nil {
		return nil, nil, ErrDatabaseError
	}
	if tracker == nil {
		return nil, nil, ErrTrackerNotFound
	}

	client, err := jira.NewClient(tracker, userID, provider, time.Duration(Cfg.TrackerTimeout)*time.Second)
	if err != nil {
		return nil, nil, err
	}
	return tracker, jira.NewHandshake(client, Cfg.OAuthCallbackURL()), nil
}

// OAuthRoutes registers the tracker authorization endpoints: the connect
// endpoint that mints an authorization URL, and the shared callback route
// all trackers redirect back to.
func OAuthRoutes(api, callback *gin.RouterGroup) {

	// Start (or restart) the OAuth dance for a tracker. Responds with the
	// authorization URL the user has to visit.
	api.POST("/trackers/:id/connect", func(c *gin.Context) {
		userID, err := GetUser(c)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		trackerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			AbortWithError(c, ErrInvalidParameter)
			return
		}

		provider, err := getStorage(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		_, handshake, err := trackerHandshake(c, provider, trackerID, userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		authURL, err := handshake.RequestToken(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authorize_url": authURL,
		})
	})

	// The tracker redirects here after the user decided on the
	// authorization request. A denied verifier flags the pairing as
	// avoid-connection.
	callback.GET("/callback", func(c *gin.Context) {
		userID, err := GetUser(c)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		trackerID, err := strconv.ParseInt(c.Query("tracker"), 10, 64)
		if err != nil {
			AbortWithError(c, ErrInvalidParameter)
			return
		}

		token := c.Query("oauth_token")
		verifier := c.Query("oauth_verifier")
		if verifier == "" {
			AbortWithError(c, ErrMissingParameter)
			return
		}

		provider, err := getStorage(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		tracker, handshake, err := trackerHandshake(c, provider, trackerID, userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if err := handshake.AccessToken(c.Request.Context(), token, verifier); err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"tracker": tracker.Name,
			"denied":  verifier == jira.VerifierDenied,
		})
	})
}
