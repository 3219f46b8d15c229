package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	annotatorstore "github.com/target/annotator-store"
	"github.com/target/annotator-store/config"
	"github.com/target/annotator-store/internal/bootstrap"
	"github.com/target/annotator-store/internal/domain/model"
	"github.com/target/annotator-store/internal/service"
)

const defaultMigrationTimeout = 5 * time.Minute

// infra is what a command may need from the outside world.
type infra struct {
	DB    *sql.DB
	Redis redis.UniversalClient // nil when unavailable
	close func() error
}

// Close releases connections opened by connectInfra.
func (i *infra) Close() error {
	if i.close == nil {
		return nil
	}
	return i.close()
}

type connectFunc func(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*infra, error)

type app struct {
	out        io.Writer
	logger     *slog.Logger
	loadConfig func() (config.AppConfig, error)
	connect    connectFunc
}

// connectInfra opens the database and, best effort, Redis. Without Redis the
// site cache is not updated and running instances see changes after it expires.
func connectInfra(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*infra, error) {
	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}
	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	client, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		logger.WarnContext(ctx, "redis unavailable; site cache will not be refreshed", "error", err)
		client = nil
	}
	in := &infra{DB: db, Redis: client}
	in.close = func() error {
		var errs []error
		if client != nil {
			errs = append(errs, client.Close())
		}
		errs = append(errs, db.Close())
		return errors.Join(errs...)
	}
	return in, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "annotator-store-admin",
		Short:         "Maintenance commands for the annotator store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)

	root.AddCommand(
		a.versionCmd(),
		a.migrateCmd(),
		a.siteCmd(),
		a.absolutizeCmd(),
	)
	return root
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), annotatorstore.Version)
			return err
		},
	}
}

func (a *app) migrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return a.withInfra(ctx, func(_ *config.AppConfig, in *infra) error {
				applied, err := bootstrap.RunMigrations(ctx, in.DB, a.logger)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(applied) == 0 {
					_, err = fmt.Fprintln(out, "schema up to date")
					return err
				}
				for _, v := range applied {
					if _, err = fmt.Fprintln(out, "applied", v); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "maximum time to wait for migrations")
	return cmd
}

func (a *app) siteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Inspect or change the current site",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSites(cmd.Context(), func(sites *service.SiteService) error {
				return printSite(cmd.OutOrStdout(), sites.Current(), asJSON)
			})
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	var name string
	setDomain := &cobra.Command{
		Use:   "set-domain <domain>",
		Short: "Change the current site's domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSites(cmd.Context(), func(sites *service.SiteService) error {
				site, err := sites.Update(cmd.Context(), model.UpdateSiteRequest{Domain: args[0], Name: name})
				if err != nil {
					return err
				}
				return printSite(cmd.OutOrStdout(), site, false)
			})
		},
	}
	setDomain.Flags().StringVar(&name, "name", "", "display name (kept when empty)")

	cmd.AddCommand(show, setDomain)
	return cmd
}

func (a *app) absolutizeCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "absolutize <url>...",
		Short: "Print absolute https URLs for local paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emit := func(d string) error {
				for _, arg := range args {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), service.AbsolutizeURL(d, arg)); err != nil {
						return err
					}
				}
				return nil
			}
			if domain != "" {
				return emit(domain)
			}
			return a.withSites(cmd.Context(), func(sites *service.SiteService) error {
				return emit(sites.Domain())
			})
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "use this domain instead of the current site's")
	return cmd
}

func (a *app) withInfra(ctx context.Context, fn func(*config.AppConfig, *infra) error) (err error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	in, err := a.connect(ctx, &cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close infra: %w", cerr))
		}
	}()
	return fn(&cfg, in)
}

func (a *app) withSites(ctx context.Context, fn func(*service.SiteService) error) error {
	return a.withInfra(ctx, func(cfg *config.AppConfig, in *infra) error {
		sites, err := bootstrap.BuildSiteService(ctx, bootstrap.SiteConfig{
			Site:        cfg.Site,
			DB:          in.DB,
			RedisClient: in.Redis,
		}, a.logger)
		if err != nil {
			return err
		}
		return fn(sites)
	})
}

func printSite(w io.Writer, site model.Site, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(site)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", fmt.Sprint(site.ID)},
		{"Domain", site.Domain},
		{"Name", site.Name},
		{"Base URL", service.AbsolutizeURL(site.Domain, "/")},
	}
	if !site.UpdatedAt.IsZero() {
		rows = append(rows, [2]string{"Updated", site.UpdatedAt.Format(time.RFC3339)})
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
