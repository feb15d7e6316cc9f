package daemon

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// requestLevel picks the log level for a finished request. Successful polls
// are frequent, so they only show up at debug.
func requestLevel(status int, failed bool) logrus.Level {
	switch {
	case failed, status >= http.StatusInternalServerError:
		return logrus.ErrorLevel
	case status >= http.StatusBadRequest:
		return logrus.WarnLevel
	default:
		return logrus.DebugLevel
	}
}

// ginLogger logs every API request to logger once it has been served.
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Read before c.Next, handlers may rewrite the path.
		method, path := c.Request.Method, c.Request.URL.Path
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":  method,
			"path":    path,
			"status":  status,
			"latency": time.Since(start).Round(time.Microsecond).String(),
			"bytes":   max(c.Writer.Size(), 0),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = q
		}

		errs := c.Errors.ByType(gin.ErrorTypePrivate)
		if len(errs) > 0 {
			fields["error"] = errs.String()
		}

		logger.WithFields(fields).Log(requestLevel(status, len(errs) > 0), "api request served")
	}
}
