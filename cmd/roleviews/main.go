package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/roleviews/internal/config"
	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	"github.com/dropDatabas3/roleviews/internal/http/server"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/roles"
	"github.com/dropDatabas3/roleviews/internal/store"
)

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func main() {
	// .env opcional; las variables ya definidas tienen prioridad
	_ = godotenv.Load()

	var (
		cfgPath = envOr("CONFIG_PATH", "")
		cfg     *config.Config
	)

	root := &cobra.Command{
		Use:           "roleviews",
		Short:         "Servicio REST con dispatch de hooks por rol",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = c
			logger.Init(logger.Config{
				Env:     cfg.App.Env,
				Level:   cfg.Log.Level,
				Service: "roleviews",
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "Path al config.yaml (env CONFIG_PATH)")

	// serve
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := server.Build(ctx, cfg, prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}
			defer rt.Close()

			h, err := rt.Handler()
			if err != nil {
				return err
			}
			return server.Serve(ctx, cfg.Server.Addr, h)
		},
	}

	// roles
	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Muestra los roles y hooks efectivos",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := server.Build(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			d := rt.Dispatcher
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "roles:     %s\n", joinRoles(d.Roles().Slice()))
			fmt.Fprintf(out, "hooks:     %s\n", strings.Join(d.Hooks().Names(), ", "))
			fmt.Fprintf(out, "ambiguous: %s\n", d.Ambiguity())
			return nil
		},
	}

	// resolve
	var resolveUser string
	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resuelve el rol de un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolveUser == "" {
				return fmt.Errorf("--user es requerido")
			}
			rt, err := server.Build(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			role, err := rt.Dispatcher.ResolveRole(cmd.Context(), store.UserFor(rt.Groups, resolveUser))
			var amb *roles.AmbiguousRoleError
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", role)
			case errors.As(err, &amb):
				fmt.Fprintf(cmd.OutOrStdout(), "ambiguous: %s (default implementation applies)\n", joinRoles(amb.Matched))
			case errors.Is(err, roles.ErrNoRole):
				fmt.Fprintln(cmd.OutOrStdout(), "no role (default implementation applies)")
			default:
				return err
			}
			return nil
		},
	}
	resolveCmd.Flags().StringVar(&resolveUser, "user", "", "ID del usuario")

	// token
	var (
		tokenUser string
		tokenTTL  time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un access token de desarrollo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenUser == "" {
				return fmt.Errorf("--user es requerido")
			}
			rt, err := server.Build(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			tok, err := rt.Issuer.Sign(tokenUser, tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "ID del usuario (sub)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "TTL del token (0 => jwt.access_ttl)")

	// migrate
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes (postgres)",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := store.OpenAdapter(cmd.Context(), store.AdapterConfig{
				Name: cfg.Storage.Driver,
				DSN:  cfg.Storage.DSN,
			})
			if err != nil {
				return err
			}
			defer conn.Close()

			m, ok := conn.(store.Migratable)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "storage %s has no migrations\n", conn.Name())
				return nil
			}
			applied, err := m.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s) %v\n", len(applied), applied)
			return nil
		},
	}

	// groups
	groupsCmd := newGroupsCmd(func(ctx context.Context) (repository.GroupRepository, func() error, error) {
		rt, err := server.Build(ctx, cfg, nil)
		if err != nil {
			return nil, nil, err
		}
		return rt.Groups, rt.Close, nil
	})

	root.AddCommand(serveCmd, rolesCmd, resolveCmd, tokenCmd, groupsCmd, migrateCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func joinRoles(rs []roles.Role) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
