package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/websocket"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// FailureLister provides the failure journal
type FailureLister interface {
	Failures(ctx context.Context, limit int) ([]*api.FailureEntry, error)
}

// Data keeps data required for service work
type Data struct {
	Port     int
	Pages    *PageHandler
	Failures FailureLister
	// DataDir is served at /data for widgets, skipped if empty
	DataDir string
	Ctx     context.Context
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) (<-chan struct{}, error) {
	goapp.Log.Info().Msgf("Starting hello form service at %d", data.Port)
	if err := validate(data); err != nil {
		return nil, err
	}

	portStr := strconv.Itoa(data.Port)

	e, err := initRoutes(data)
	if err != nil {
		return nil, err
	}

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	res := make(chan struct{}, 1)
	go func() {
		defer close(res)
		if err := gracehttp.Serve(e.Server); err != nil {
			goapp.Log.Error().Err(err).Msg("can't start web server")
		}
		goapp.Log.Info().Msg("exit http routine")
	}()
	return res, nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("hello_form", nil)
}

func initRoutes(data *Data) (*echo.Echo, error) {
	e := echo.New()
	e.Use(middleware.Logger())
	promMdlw.Use(e)

	static, err := staticFS()
	if err != nil {
		return nil, err
	}
	e.GET("/", index())
	e.StaticFS("/static", static)
	if data.DataDir != "" {
		e.Static("/data", data.DataDir)
	}
	e.GET("/live", live(data))
	e.GET("/ws/page", subscribe(data))
	e.GET("/diag/failures", failures(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e, nil
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func index() func(echo.Context) error {
	return func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, indexHTML)
	}
}

func failures(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		limit := 50
		if s := c.QueryParam("limit"); s != "" {
			l, err := strconv.Atoi(s)
			if err != nil || l < 1 {
				return echo.NewHTTPError(http.StatusBadRequest, "wrong limit")
			}
			limit = l
		}
		res, err := data.Failures.Failures(c.Request().Context(), limit)
		if err != nil {
			goapp.Log.Error().Err(err).Msg("can't list failures")
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func validate(data *Data) error {
	if data.Pages == nil {
		return fmt.Errorf("no Pages")
	}
	if data.Failures == nil {
		return fmt.Errorf("no Failures")
	}
	if data.Ctx == nil {
		return fmt.Errorf("no Ctx")
	}
	return nil
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

func subscribe(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return err
		}
		defer ws.Close()

		return data.Pages.HandleConnection(data.Ctx, ws)
	}
}
