package courses

import (
	"io"
	"time"

	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/app/tracker"
	"impulsa-web/internal/logger"

	"github.com/gin-gonic/gin"
)

// GET /courses/events
//
// Events streams the auth state of the catalog page. When the viewer has
// no session, or signs out elsewhere, it sends a "redirect" event with the
// login path and ends the stream.
func (h *Handler) Events(c *gin.Context) {
	redirect := make(chan string, 1)
	tr := tracker.New(h.auth, tracker.NavigatorFunc(func(path string) {
		select {
		case redirect <- path:
		default:
		}
	}), logger.FromGin(c))
	defer tr.Close()

	tr.Start(c.Request.Context(), middleware.TokenFrom(c))

	ping := time.NewTicker(h.keepAlive)
	defer ping.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	// headers go out now, not with the first event
	c.Writer.Flush()
	c.Stream(func(io.Writer) bool {
		select {
		case path := <-redirect:
			c.SSEvent("redirect", path)
			return false
		case <-ping.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		case <-h.stop:
			return false
		}
	})
}
