package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ProcessTimeHeader = "X-Process-Time"

// timedWriter stamps the elapsed time onto the response just before the
// headers go out.
type timedWriter struct {
	gin.ResponseWriter
	start   time.Time
	elapsed time.Duration
	stamped bool
}

func (w *timedWriter) stamp() {
	if w.stamped {
		return
	}
	w.stamped = true
	w.elapsed = time.Since(w.start)
	w.Header().Set(ProcessTimeHeader, formatSeconds(w.elapsed))
}

func (w *timedWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timedWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timedWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// ProcessTime sets X-Process-Time (seconds, three decimals) on every
// response and writes one access log line per request.
func ProcessTime(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &timedWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Writer = w

		c.Next()

		if !w.Written() {
			w.stamp()
		}
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", w.Status()),
			zap.String("process_time", formatSeconds(w.elapsed)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
