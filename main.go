package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/helasrebellion/arcana-forges/internal/config"
	"github.com/helasrebellion/arcana-forges/internal/contact"
	"github.com/helasrebellion/arcana-forges/internal/content"
	"github.com/helasrebellion/arcana-forges/internal/logging"
	"github.com/helasrebellion/arcana-forges/internal/store"
	"github.com/helasrebellion/arcana-forges/internal/tui"
)

var (
	// Global flags
	verbose     bool
	contentPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "arcana",
	Short: "Arcana Code Forges portfolio site",
	Long: `Serves the Arcana Code Forges portfolio site, or opens the crystal orb
in your terminal.

Run without arguments to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

var scryCmd = &cobra.Command{
	Use:   "scry",
	Short: "Scry the crystal orb in the terminal",
	Long: `Opens the Origins of the Forge orb in the terminal. Click the orb to
reveal a vision, or hold the mouse button and move to charge it.`,
	RunE: runScry,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "Site content YAML (defaults to the built-in content)")
	rootCmd.AddCommand(serveCmd, scryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSite resolves the content file from the flag, then config.
func loadSite(cfg config.Config) (*content.Site, string, error) {
	path := contentPath
	if path == "" {
		path = cfg.Content.Path
	}
	if path == "" {
		site, err := content.Default()
		return site, "", err
	}
	site, err := content.LoadFile(path)
	return site, path, err
}

func newRelay(cfg config.Config) contact.Relay {
	if cfg.Contact.FormEndpoint != "" {
		return contact.NewFormRelay(cfg.Contact.FormEndpoint, cfg.Contact.Subject)
	}
	return &contact.SMTPRelay{
		Host: cfg.Contact.SMTPHost,
		Port: cfg.Contact.SMTPPort,
		User: cfg.Contact.SMTPUser,
		Pass: cfg.Contact.SMTPPass,
		To:   cfg.Contact.ToEmail,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	site, path, err := loadSite(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	a := newApp(cfg, logger, st, newRelay(cfg), site)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	if cfg.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConns)
	}

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.Int("max_conns", cfg.Server.MaxConns))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		a.maintain(ctx)
		return nil
	})

	if path != "" && cfg.Content.Watch {
		g.Go(func() error {
			return content.Watch(ctx, path, logger, a.setSite)
		})
	}

	err = g.Wait()
	a.wait()
	return err
}

// maintain sweeps idle orb sessions and old visitor rows until ctx ends.
func (a *app) maintain(ctx context.Context) {
	a.cleanupOldVisitorData(ctx)

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.sessions.Sweep(a.cfg.Server.SessionIdle); n > 0 {
				a.logger.Debug("swept idle orb sessions", zap.Int("count", n))
			}
			a.cleanupOldVisitorData(ctx)
		}
	}
}

func runScry(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	site, _, err := loadSite(cfg)
	if err != nil {
		return err
	}

	err = tui.Run(cmd.Context(), site.Origins, site.Runes, cfg.Carousel.Interval)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
