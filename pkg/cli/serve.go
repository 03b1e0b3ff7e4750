package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getmockd/httpfixture/pkg/config"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var (
	serveConfig string
	serveTarget string
	serveListen string
	serveMode   string
	serveDir    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a reverse proxy that records and replays fixtures",
	Long: `Proxy every request to --target through the fixture transport. In replay
mode the target is never contacted; in capture and automatic modes live
responses are stored before they are served.

Settings come from --config, then HTTPFIXTURE_MODE and HTTPFIXTURE_DIR,
then the --mode and --dir flags.`,
	Example: `  httpfixture serve --target https://api.example.com --mode automatic
  httpfixture serve --config httpfixture.yaml --target https://api.example.com --listen :9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServeConfig()
		if err != nil {
			return err
		}
		target, err := parseTarget(serveTarget)
		if err != nil {
			return err
		}

		logger := cfg.Logger(cmd.ErrOrStderr())
		tr, err := cfg.NewTransport(nil, logger)
		if err != nil {
			return err
		}
		defer func() { _ = tr.Close() }()

		ln, err := net.Listen("tcp", serveListen)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", serveListen, err)
		}

		srv := &http.Server{
			Handler:           newProxy(target, tr, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(ln)
		}()
		logger.Info("serving fixtures",
			"listen", ln.Addr().String(),
			"target", target.String(),
			"mode", string(tr.Mode()))

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func loadServeConfig() (*config.Config, error) {
	cfg := config.Default()
	if serveConfig != "" {
		loaded, err := config.LoadFromFile(serveConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if serveMode != "" {
		cfg.Mode = serveMode
	}
	if serveDir != "" {
		cfg.Store.Path = serveDir
	}
	return cfg, nil
}

func parseTarget(raw string) (*url.URL, error) {
	target, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --target: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid --target %q: scheme and host are required", raw)
	}
	return target, nil
}

// newProxy forwards requests to target through rt.
func newProxy(target *url.URL, rt http.RoundTripper, logger *slog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		Transport: rt,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy request failed",
				"method", r.Method,
				"url", r.URL.String(),
				"error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Configuration file (YAML or JSON)")
	serveCmd.Flags().StringVarP(&serveTarget, "target", "t", "", "Upstream base URL")
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().StringVarP(&serveMode, "mode", "m", "", "Mode override: online, capture, replay or automatic")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Fixture directory override")
	_ = serveCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(serveCmd)
}
