package daemon

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/i2cbatt/pkg/config"
	"github.com/charlie0129/i2cbatt/pkg/types"
	"github.com/charlie0129/i2cbatt/pkg/version"
)

const maxPollIntervalSeconds = 24 * 60 * 60

var errNoReading = errors.New("no reading yet")

func (d *daemon) getStatus(c *gin.Context) {
	s := types.Status{
		PollIntervalSeconds: int(d.conf.PollInterval() / time.Second),
		HistoryLength:       d.recorder.Len(),
	}
	if r, ok := d.recorder.Last(); ok {
		s.Reading = &r
	}
	if err := d.lastError(); err != nil {
		s.LastError = err.Error()
	}
	c.IndentedJSON(http.StatusOK, s)
}

func (d *daemon) getReading(c *gin.Context) {
	r, ok := d.recorder.Last()
	if !ok {
		d.abortNoReading(c)
		return
	}
	c.IndentedJSON(http.StatusOK, r)
}

func (d *daemon) getLevel(c *gin.Context) {
	r, ok := d.recorder.Last()
	if !ok {
		d.abortNoReading(c)
		return
	}
	c.IndentedJSON(http.StatusOK, r.Level.String())
}

func (d *daemon) getVoltage(c *gin.Context) {
	r, ok := d.recorder.Last()
	if !ok {
		d.abortNoReading(c)
		return
	}
	c.IndentedJSON(http.StatusOK, r.Voltage)
}

func (d *daemon) abortNoReading(c *gin.Context) {
	err := errNoReading
	if lastErr := d.lastError(); lastErr != nil {
		err = fmt.Errorf("%w: %v", errNoReading, lastErr)
	}
	c.IndentedJSON(http.StatusServiceUnavailable, err.Error())
	_ = c.AbortWithError(http.StatusServiceUnavailable, err)
}

func (d *daemon) getHistory(c *gin.Context) {
	last := c.Query("last")
	if last == "" {
		c.IndentedJSON(http.StatusOK, d.recorder.GetRecords())
		return
	}

	dur, err := time.ParseDuration(last)
	if err != nil || dur <= 0 {
		err = fmt.Errorf("invalid duration %q", last)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	c.IndentedJSON(http.StatusOK, d.recorder.GetRecordsIn(dur))
}

func (d *daemon) refresh(c *gin.Context) {
	r, err := d.sample(c.Request.Context())
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.IndentedJSON(http.StatusOK, r)
}

func (d *daemon) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(d.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (d *daemon) setPollInterval(c *gin.Context) {
	var seconds int
	if err := c.BindJSON(&seconds); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if seconds < 1 || seconds > maxPollIntervalSeconds {
		err := fmt.Errorf("poll interval must be between 1 and %d seconds, got %d", maxPollIntervalSeconds, seconds)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	d.conf.SetPollInterval(time.Duration(seconds) * time.Second)
	if err := d.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	d.notifyIntervalChanged()

	logrus.Infof("set poll interval to %ds", seconds)

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set poll interval to %ds", seconds))
}

// streamEvents sends hub events to the client as server-sent events until
// the client goes away.
func (d *daemon) streamEvents(c *gin.Context) {
	ch := d.hub.Subscribe()
	defer d.hub.Unsubscribe(ch)

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
