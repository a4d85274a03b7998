package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/editor"
	"github.com/ziadkadry99/asciitree/internal/server"
)

var (
	servePort   int
	serveDemo   bool
	serveIngest string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser tree editor",
	Long:  `Starts a local HTTP server hosting the tree editor. Every edit is applied to a server-side session and pushed to open pages over a websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		port := cfg.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		sess, err := newSession(cfg, log)
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		switch {
		case serveIngest != "":
			res, err := sess.Ingest(ctx, serveIngest, nil)
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", serveIngest, err)
			}
			if res.Err != nil {
				log.Warn("some directories could not be read", zap.Error(res.Err))
			}
		case serveDemo:
			if err := sess.LoadDemo(); err != nil {
				return fmt.Errorf("loading demo: %w", err)
			}
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.AllowAllOrigins,
		}, log)
		editor.New(sess, log).RegisterRoutes(srv.Router())

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			log.Info("shutting down editor")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "asciitree %s editor at http://localhost:%d\n", Version, port)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "start with the demo tree loaded")
	serveCmd.Flags().StringVar(&serveIngest, "ingest", "", "start with the tree of this folder")
	rootCmd.AddCommand(serveCmd)
}
