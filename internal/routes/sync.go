package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	. "timetracker-sync/internal/config"
	"timetracker-sync/internal/jira"
	"timetracker-sync/internal/notify"
	"timetracker-sync/internal/storage"
	"timetracker-sync/internal/worklog"
)

type syncRequest struct {
	// Limit caps the number of entries pushed in this run; 0 means all.
	Limit int `json:"limit"`
}

type syncOutcome struct {
	EntryID   int64  `json:"entry_id"`
	Ticket    string `json:"ticket"`
	WorklogID *int64 `json:"worklog_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SyncRoutes registers the endpoint that pushes the authenticated user's
// pending entries to a tracker.
func SyncRoutes(api *gin.RouterGroup) {

	api.POST("/trackers/:id/sync", func(c *gin.Context) {
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

		var req syncRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				AbortWithError(c, ErrInvalidRequest)
				return
			}
		}

		provider, err := getStorage(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()

		tracker, err := provider.GetTicketSystem(ctx, trackerID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if tracker == nil {
			AbortWithError(c, ErrTrackerNotFound)
			return
		}

		client, err := jira.NewClient(tracker, userID, provider, time.Duration(Cfg.TrackerTimeout)*time.Second)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		handshake := jira.NewHandshake(client, Cfg.OAuthCallbackURL())
		gateway := jira.NewGateway(client, handshake)
		synchronizer := worklog.NewSynchronizer(gateway, provider, provider, tracker, userID)

		outcomes, err := synchronizer.SyncPending(ctx, req.Limit)

		var unauthorized *jira.UnauthorizedError
		if errors.As(err, &unauthorized) {
			// Only the user can fix this, on the tracker's consent screen.
			notifyReauthorization(c, provider, userID, tracker.Name, unauthorized.AuthURL)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success":       false,
				"authorize_url": unauthorized.AuthURL,
				"outcomes":      renderOutcomes(outcomes),
			})
			return
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}

		synced := 0
		failed := 0
		for _, o := range outcomes {
			if o.Err == nil {
				synced++
			} else {
				failed++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"synced":   synced,
			"failed":   failed,
			"outcomes": renderOutcomes(outcomes),
		})
	})
}

func renderOutcomes(outcomes []worklog.Outcome) []syncOutcome {
	rendered := make([]syncOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		out := syncOutcome{
			EntryID: o.Entry.ID,
			Ticket:  o.Entry.Ticket,
		}
		if o.Entry.WorklogID.Valid {
			id := o.Entry.WorklogID.Int64
			out.WorklogID = &id
		}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		rendered = append(rendered, out)
	}
	return rendered
}

// notifyReauthorization mails the authorization URL to the user. Best
// effort; the HTTP response already carries the URL.
func notifyReauthorization(c *gin.Context, provider storage.Provider, userID int64, trackerName, authURL string) {
	slog.Info("Re-authorization required", "user", userID, "tracker", trackerName, "authorize_url", authURL)

	user, err := provider.GetUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		return
	}

	notifier := notify.NewNotifier(&Cfg.SMTP)
	if err := notifier.SendReauthorization(user.Email, trackerName, authURL); err != nil {
		slog.Warn("Failed to send re-authorization mail", "user", userID, "error", err)
	}
}
