package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/frahmantamala/project-expenses/internal/gateway"
	"github.com/frahmantamala/project-expenses/internal/transport/middleware"
	"github.com/frahmantamala/project-expenses/pkg/logger"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/spf13/cobra"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the API gateway",
	Long:  `Start the gateway that routes /api prefixes to the configured service instances`,
	Run: func(cmd *cobra.Command, args []string) {
		startGateway()
	},
}

func startGateway() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	gw, err := gateway.New(cfg.Gateway, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build gateway: %v\n", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(lg))
	gw.Routes(router)

	lg.Info("gateway routes loaded", "services", gw.Registry().Services())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	serve(server, lg, nil)
}
