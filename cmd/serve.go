package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/invopop/jsonschema"
	"github.com/mpvbridge/mpvbridge/bridge"
	"github.com/mpvbridge/mpvbridge/key"
	"github.com/mpvbridge/mpvbridge/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolP("concurrent", "c", true, "Dispatch requests concurrently, responses are matched by id")
	lo.Must0(viper.BindPFlag(key.BridgeConcurrent, serveCmd.Flags().Lookup("concurrent")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve media requests from a host application over stdin and stdout",
	Long: `Serve media requests from a host application over stdin and stdout.

Every line on stdin is a JSON request such as {"id":1,"method":"mediaInit"}.
Every response is written as one JSON line on stdout carrying the same id.
Run "serve schema" for the full message schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := useMpv()
		srv := bridge.NewServer(s, bridge.WithConcurrency(viper.GetBool(key.BridgeConcurrent)))

		log.Info("bridge: serving on stdio")

		done := make(chan error, 1)
		go func() {
			done <- srv.Serve(ctx, os.Stdin, os.Stdout)
		}()

		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			log.Info("bridge: interrupted")
		}

		s.Release()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		handleErr(err)
	},
}

func init() {
	serveCmd.AddCommand(serveSchemaCmd)
}

var serveSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of bridge requests and responses",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			if t == reflect.TypeOf(bridge.Error{}) {
				return "BridgeError"
			}
			return t.Name()
		}

		schema := reflector.Reflect(&bridge.Schema{})

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
