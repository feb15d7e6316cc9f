package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/config"
	"github.com/charlie0129/i2cbatt/pkg/i2c"
	"github.com/charlie0129/i2cbatt/pkg/publisher"
)

const shutdownTimeout = 5 * time.Second

// Options configures Run.
type Options struct {
	ConfigPath         string
	UnixSocketPath     string
	AllowNonRootAccess bool
	// Opener replaces the host I2C drivers when set.
	Opener i2c.Opener
}

func setupRoutes(d *daemon) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", d.getStatus)
	router.GET("/reading", d.getReading)
	router.GET("/level", d.getLevel)
	router.GET("/voltage", d.getVoltage)
	router.GET("/history", d.getHistory)
	router.POST("/refresh", d.refresh)
	router.GET("/config", d.getConfig)
	router.PUT("/poll-interval", d.setPollInterval)
	router.GET("/events", d.streamEvents)
	router.GET("/version", getVersion)

	return router
}

// Run runs the daemon until ctx is done or SIGINT/SIGTERM is received.
func Run(ctx context.Context, opts Options) error {
	conf, err := config.NewFile(opts.ConfigPath)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to parse config during startup")
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	var bus *int
	if b := conf.Bus(); b >= 0 {
		bus = &b
	}
	monitor, err := battery.New(battery.Options{Opener: opts.Opener, Bus: bus})
	if err != nil {
		return err
	}
	defer func() {
		logrus.Info("closing battery monitor")
		if err := monitor.Close(); err != nil {
			logrus.Errorf("failed to close battery monitor: %v", err)
		}
	}()

	d := newDaemon(conf, monitor)

	if m := conf.MQTT(); m.Enabled() {
		p, err := publisher.NewMQTT(m)
		if err != nil {
			return err
		}
		d.publisher = p
		defer p.Close()
	}

	l, err := listen(opts.UnixSocketPath)
	if err != nil {
		return err
	}

	if conf.AllowNonRootAccess() || opts.AllowNonRootAccess {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", opts.UnixSocketPath)
		if err := os.Chmod(opts.UnixSocketPath, 0777); err != nil {
			_ = l.Close()
			return pkgerrors.Wrapf(err, "failed to chmod %s", opts.UnixSocketPath)
		}
	}

	srv := &http.Server{
		Handler: setupRoutes(d),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return d.loop(ctx)
	})

	// Receive SIGHUP to reload config
	g.Go(func() error {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		defer signal.Stop(sigc)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-sigc:
				d.reloadConfig()
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logrus.Info("exiting")
	return err
}

// listen listens on a unix socket, replacing a stale socket file left by a
// daemon that did not exit cleanly.
func listen(path string) (net.Listener, error) {
	if fi, err := os.Stat(path); err == nil && fi.Mode()&os.ModeSocket != 0 {
		if conn, err := net.Dial("unix", path); err == nil {
			_ = conn.Close()
			return nil, pkgerrors.Errorf("another daemon is listening on %s", path)
		}
		logrus.Warnf("removing stale socket %s", path)
		if err := os.Remove(path); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to remove stale socket %s", path)
		}
	}

	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to listen on %s", path)
	}
	return l, nil
}

func (d *daemon) reloadConfig() {
	bus := d.conf.Bus()
	if err := d.conf.Load(); err != nil {
		logrus.Errorf("failed to reload config: %v", err)
		return
	}
	if d.conf.Bus() != bus {
		logrus.Warnf("bus changed from %d to %d, restart the daemon to apply", bus, d.conf.Bus())
	}
	d.recorder.SetMaxRecordCount(d.conf.HistorySize())
	d.notifyIntervalChanged()
	logrus.Infof("config reloaded")
}
