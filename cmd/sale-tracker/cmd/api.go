package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/sale-tracker/internal/api/handlers"
	"github.com/donaldgifford/sale-tracker/internal/engine"
	"github.com/donaldgifford/sale-tracker/internal/registry"
	"github.com/donaldgifford/sale-tracker/internal/steam"
)

const apiTitle = "Sale Tracker API"

// apiDeps are the services behind the REST API.
type apiDeps struct {
	catalog  *steam.StoreClient
	tracker  *registry.Registry
	engine   *engine.Engine
	failures handlers.FailureLister
	quota    handlers.QuotaSource
	defaults handlers.TrackingDefaults
}

func newAPI(e *echo.Echo) huma.API {
	return humaecho.New(e, huma.DefaultConfig(apiTitle, Version))
}

func registerAPI(api huma.API, d apiDeps) {
	handlers.RegisterTrackingRoutes(api, handlers.NewTrackingHandler(d.catalog, d.tracker, d.defaults))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(d.tracker, d.engine))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(d.catalog))
	handlers.RegisterCheckRoutes(api, handlers.NewCheckHandler(d.engine))
	handlers.RegisterFailureRoutes(api, handlers.NewFailuresHandler(d.failures))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(d.quota))
}

func openapiCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		Long:  "Print the OpenAPI 3.1 document for the REST API without starting the server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := newAPI(echo.New())
			registerAPI(api, apiDeps{})

			var (
				out []byte
				err error
			)
			switch format {
			case "json":
				out, err = json.MarshalIndent(api.OpenAPI(), "", "  ")
			case "yaml":
				out, err = api.OpenAPI().YAML()
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("rendering OpenAPI document: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")

	return cmd
}
