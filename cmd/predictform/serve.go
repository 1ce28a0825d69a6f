package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	formcomponent "github.com/goliatone/go-predictform/components/predictform"
	"github.com/goliatone/go-predictform/pkg/render"
	"github.com/goliatone/go-predictform/pkg/renderers/vanilla"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler, err := a.buildMux(ctx)
			if err != nil {
				return err
			}
			return a.serve(ctx, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// buildMux mounts the form component, its stylesheet and a health check.
func (a *app) buildMux(ctx context.Context) (*http.ServeMux, error) {
	cfg := a.cfg
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	var selector theme.ThemeSelector
	if manifest := cfg.Manifest(); manifest != nil {
		selector = render.ManifestSelector{Manifest: manifest}
	}
	themeCfg, err := render.SelectTheme(selector, cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}

	assetsPrefix := path.Join("/", cfg.Server.BasePath, "assets") + "/"
	htmlOpts := []vanilla.Option{
		vanilla.WithStylesheet(assetsPrefix + vanilla.StylesheetName),
		vanilla.WithNotice(cfg.Server.Notice),
	}
	if cfg.Server.TemplatesDir != "" {
		htmlOpts = append(htmlOpts, vanilla.WithTemplatesDir(cfg.Server.TemplatesDir))
	}
	renderer, err := vanilla.New(htmlOpts...)
	if err != nil {
		return nil, err
	}

	component := formcomponent.New(
		formcomponent.WithRoutePath(cfg.Server.RoutePath),
		formcomponent.WithCookieName(cfg.Server.CookieName),
		formcomponent.WithSecureCookie(cfg.Server.SecureCookie),
		formcomponent.WithSessionTTL(cfg.GetSessionTTL()),
		formcomponent.WithMaxSessions(cfg.Server.MaxSessions),
		formcomponent.WithTitle(cfg.Server.Title),
		formcomponent.WithPredictor(client),
		formcomponent.WithRenderer(renderer),
		formcomponent.WithTheme(themeCfg),
		formcomponent.WithLogger(a.logger),
	)

	mux := http.NewServeMux()
	pattern, err := component.RegisterRoutes(mux, cfg.Server.BasePath)
	if err != nil {
		return nil, err
	}
	mux.Handle(assetsPrefix, http.StripPrefix(assetsPrefix, http.FileServerFS(vanilla.AssetsFS())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	a.logger.Info("form mounted", zap.String("pattern", pattern), zap.String("assets", assetsPrefix))
	return mux, nil
}

// serve runs the server until ctx is cancelled, then drains connections.
func (a *app) serve(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
