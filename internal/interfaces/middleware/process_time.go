package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/pkg/constants"
)

// timedWriter injects the processing duration header just before the status
// line is written, since headers cannot be added after the body starts.
type timedWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timedWriter) WriteHeader(code int) {
	elapsed := time.Since(w.start).Seconds()
	w.Header().Set(constants.HeaderProcessTime, strconv.FormatFloat(elapsed, 'f', -1, 64))
	w.ResponseWriter.WriteHeader(code)
}

// ProcessTime reports request handling duration in seconds via the
// My-Process-Time response header.
func ProcessTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}
