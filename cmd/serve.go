package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/ryukoposting/ustack/internal/config"
	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/scaffold"
	"github.com/ryukoposting/ustack/internal/server"
)

const shutdownTimeout = 5 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `The serve command serves the blog in the blog directory over HTTP.

Posts are parsed on first request and re-validated against disk once the
cache TTL has passed. With --watch, file changes expire cached entries
immediately instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, appConfig, logger)
	},
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	root, err := blogRoot(cfg)
	if err != nil {
		return fmt.Errorf("resolving blog directory: %w", err)
	}

	cache, err := content.New(filepath.Join(root, scaffold.PostsDir), cfg.TTL(), logger)
	if err != nil {
		return fmt.Errorf("%w (run `ustack init` to create a blog)", err)
	}
	if _, err := cache.RefreshIndex(true); err != nil {
		logger.Warn("initial index load failed", "err", err)
	}

	srv, err := server.New(cache, server.Options{
		PublicDir:    filepath.Join(root, scaffold.PublicDir),
		IndexPageLen: cfg.IndexPageLen,
		FeedMaxItems: cfg.FeedMaxItems,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           h2c.NewHandler(srv, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Address, err)
	}
	logger.Info("listening", "url", "http://"+ln.Addr().String(), "dir", root)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if cfg.Watch {
		g.Go(func() error {
			return cache.Watch(gctx)
		})
	}
	return g.Wait()
}

func init() {
	serveCmd.Flags().StringP("address", "a", config.DefaultAddress, "address and port the server listens on")
	serveCmd.Flags().IntP("cache-ttl", "c", config.DefaultCacheTTL, "post cache time-to-live in seconds; values below the default are not recommended in production")
	serveCmd.Flags().Int("index-page-len", config.DefaultIndexPageLen, "maximum number of posts on each index page")
	serveCmd.Flags().Int("feed-max-items", config.DefaultFeedMaxItems, "maximum number of items in the RSS feed")
	serveCmd.Flags().Bool("watch", false, "expire cached posts as soon as their files change")
	rootCmd.AddCommand(serveCmd)
}
