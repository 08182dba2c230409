package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/config"
	"github.com/charlie0129/devbridge/pkg/device"
)

// daemon serves the platform and battery channels for one Platform.
type daemon struct {
	conf      config.Config
	handler   bridge.Handler
	publisher *bridge.Publisher
	metrics   *metrics
}

func newDaemon(conf config.Config, platform device.Platform, models *device.ModelTable) *daemon {
	m := newMetrics()
	return &daemon{
		conf:      conf,
		handler:   m.instrument(bridge.NewService(platform, models)),
		publisher: bridge.NewPublisher(platform),
		metrics:   m,
	}
}

func (d *daemon) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/channels", d.getChannels)
	router.POST("/channels/platform", d.invokeMethod)
	router.GET("/channels/battery", d.streamBattery)
	router.GET("/channels/battery/ws", d.streamBatteryWebSocket)
	router.GET("/subscription", d.getSubscription)
	router.GET("/version", getVersion)
	router.GET("/metrics", gin.WrapH(d.metrics.handler()))

	return router
}

// newPlatform returns the Platform selected by conf.
func newPlatform(conf config.Config) device.Platform {
	if conf.Platform() == config.PlatformMock {
		logrus.Warn("using mock platform, readings are not real")
		return device.NewMock(
			device.Identity{Manufacturer: "devbridge", Model: "Mock"},
			device.OSVersion{PlatformName: "Mock", VersionString: "1.0"},
		)
	}
	return device.NewHost(conf.PollInterval())
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded, platform and model table changes take effect on restart")
		}
	}()

	models, err := device.LoadModelTable(conf.ModelTablePath())
	if err != nil {
		return fmt.Errorf("failed to load model table: %w", err)
	}

	d := newDaemon(conf, newPlatform(conf), models)
	router := d.setupRoutes()

	srv := &http.Server{
		Handler: router,
	}

	// A stale socket from an unclean exit prevents listening.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket %s: %w", unixSocketPath, err)
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	listeners := []net.Listener{l}
	if addr := conf.TCPListenAddr(); addr != "" {
		tl, err := net.Listen("tcp", addr)
		if err != nil {
			logrus.Fatal(err)
		}
		listeners = append(listeners, tl)
	}

	// Serve HTTP on every listener
	for _, l := range listeners {
		go func(l net.Listener) {
			logrus.Infof("http server listening on %s", l.Addr().String())
			if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatal(err)
			}
		}(l)
	}

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	// Release the OS registration and end open streams first, otherwise
	// Shutdown waits for streaming clients to hang up.
	logrus.Info("closing battery publisher")
	d.publisher.Close()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}
