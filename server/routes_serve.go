// routes_serve.go - Server-Start und Lifecycle-Management
// Enthaelt: Serve() - Hauptfunktion zum Starten des HTTP-Servers

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ollama/posids/envconfig"
	"github.com/ollama/posids/logutil"
	"github.com/ollama/posids/version"
)

// Serve startet den HTTP-Server und beendet ihn bei SIGINT/SIGTERM
func Serve(ln net.Listener) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	slog.Info("server config", "env", envconfig.Values())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, ln)
}

// serve laeuft bis ctx beendet ist oder der Listener einen Fehler liefert
func serve(ctx context.Context, ln net.Listener) error {
	s := &Server{
		addr:      ln.Addr(),
		maxTokens: envconfig.MaxTokens(),
	}

	srvr := &http.Server{
		Handler: s.GenerateRoutes(),
	}

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srvr.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		return srvr.Shutdown(context.WithoutCancel(ctx))
	})

	return g.Wait()
}
