package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/facereg/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the facereg HTTP API.

Endpoints:
  POST /api/v1/faces/check       is this face already registered?
  POST /api/v1/faces/recognize   who is this face?
  POST /api/v1/faces/register    store a new identity with its photo
  GET  /api/v1/identities        list registered identities

The paths used by the original browser client (/api/check_face.php,
/api/recognize.php, /register.php) are served as well.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().StringSlice("allowed-origin", nil, "Additional CORS origin (repeatable, adds to WEB_ALLOWED_ORIGINS)")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cfg.Web.AllowedOrigins = append(cfg.Web.AllowedOrigins, mustGetStringSlice(cmd, "allowed-origin")...)
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, photos, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count identities: %w", err)
	}
	log.Info().
		Str("database", cfg.Database.Driver).
		Str("photos", cfg.Photos.Backend).
		Int("identities", count).
		Str("threshold", fmt.Sprintf("%.3f", cfg.Matching.Threshold)).
		Int("dimension", cfg.Matching.Dimension).
		Msg("backends ready")

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, store, photos, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	fmt.Printf("Starting facereg on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
