package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
	"github.com/airenas/hello-form/internal/greeter"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	res := &cobra.Command{
		Use:           "greet",
		Short:         "Submits a name pair to the greeting endpoint and prints the outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			initLogging(v.GetBool("verbose"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, v)
		},
	}
	f := res.Flags()
	f.String("first", "", "first name")
	f.String("last", "", "last name")
	f.String("url", greeter.DefaultURL, "greeting endpoint")
	f.Duration("timeout", 0, "request timeout, 0 waits forever")
	f.Bool("strict", true, "fail when the response has no greeting")
	f.BoolP("verbose", "v", false, "debug logging")
	_ = v.BindPFlags(f)

	v.SetEnvPrefix("GREET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return res
}

func initLogging(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func run(ctx context.Context, cmd *cobra.Command, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := greeter.NewClient(v.GetString("url"),
		greeter.WithTimeout(v.GetDuration("timeout")), greeter.WithStrict(v.GetBool("strict")))
	if err != nil {
		return err
	}
	out := client.Do(ctx, &api.UserData{FirstName: v.GetString("first"), LastName: v.GetString("last")})
	goapp.Log.Debug().Str("kind", out.Kind.String()).Msg("done")
	if out.Kind == greeter.Failure {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", out.Kind, out.Detail)
		return fmt.Errorf("%s", out.Detail)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Greeting)
	return nil
}
