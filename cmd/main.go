package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/db"
	"github.com/airenas/hello-form/internal/diag"
	"github.com/airenas/hello-form/internal/form"
	"github.com/airenas/hello-form/internal/greeter"
	"github.com/airenas/hello-form/internal/service"
	"github.com/airenas/hello-form/internal/widgets"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/color"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	envErr := godotenv.Load()
	goapp.StartWithDefault()
	if envErr != nil {
		goapp.Log.Debug().Err(envErr).Msg("no .env")
	}

	printBanner()

	cfg := goapp.Config
	cfg.SetDefault("port", 8000)
	cfg.SetDefault("greeter.url", greeter.DefaultURL)
	cfg.SetDefault("greeter.strict", true)
	cfg.SetDefault("journal.size", 100)

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	client, err := greeter.NewClient(cfg.GetString("greeter.url"),
		greeter.WithTimeout(cfg.GetDuration("greeter.timeout")),
		greeter.WithStrict(cfg.GetBool("greeter.strict")))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init greeter")
	}
	policy, err := form.ParsePolicy(cfg.GetString("form.policy"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init form policy")
	}

	var journal diag.Journal
	if url := cfg.GetString("journal.url"); url != "" {
		rj, err := db.NewRedisJournal(url, cfg.GetString("journal.key"), cfg.GetInt("journal.size"))
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init redis journal")
		}
		defer rj.Close()
		journal = rj
	} else {
		journal = db.NewMemoryJournal(cfg.GetInt("journal.size"))
	}
	metrics, err := diag.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init metrics")
	}
	recorder := diag.NewRecorder(goapp.Log.With().Str("component", "diag").Logger(), journal, metrics)

	doc, err := service.PageDocument()
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't parse page")
	}
	wCfg, err := widgets.LoadFile(cfg.GetString("widgets.file"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't load widgets")
	}
	pages, err := service.NewPageHandler(doc, client, recorder, policy, wCfg.Hooks())
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init page handler")
	}

	data := &service.Data{}
	data.Ctx = ctx
	data.Port = cfg.GetInt("port")
	data.Pages = pages
	data.Failures = recorder
	data.DataDir = cfg.GetString("data.dir")

	doneCh, err := service.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}

	/////////////////////// Waiting for terminate
	waitCh := make(chan os.Signal, 2)
	signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-waitCh:
		goapp.Log.Info().Msg("Got exit signal")
	case <-doneCh:
		goapp.Log.Info().Msg("Service exit")
	}
	cancelFunc()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

var (
	version = "DEV"
)

func printBanner() {
	banner :=
		`
    HELLO FORM v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/airenas/hello-form"))
}
