package main

import (
	"fmt"
	"log"
	"regexp"
	"runtime"

	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/tripkit/agentd/internal/blobstore"
	"github.com/tripkit/agentd/internal/config"
	"github.com/tripkit/agentd/internal/credential"
	"github.com/tripkit/agentd/internal/sastoken"
	"github.com/tripkit/agentd/internal/sessions"
	"github.com/tripkit/agentd/internal/webserver"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	listen string
)

func main() {
	c := &cobra.Command{
		Use:     "agentd",
		Short:   "Mediation layer for agent access to blob storage and ephemeral code execution",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.ExactArgs(0),
	}
	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for agentd",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(c.Version)
		},
	})
	serverCmd.Flags().StringVarP(&listen, "listen", "l", "", "Server's listen address (overrides AGENTD_LISTEN)")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start server",
	Args:  cobra.ExactArgs(0),
	RunE: func(c *cobra.Command, _ []string) error {
		cfg := config.Load()
		if listen != "" {
			cfg.ListenAddress = listen
		}

		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid configuration")
		}

		//

		lr := logrus.New()
		lr.SetFormatter(&logger.LogrusTextFormatter{
			DisableColors:   false,
			ForceColors:     true,
			ForceFormatting: true,
			PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})

		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			lr.SetLevel(level)
		}

		wrapped := logger.WrapLogrus(lr)

		ctrl := webserver.Controller{
			Version:       c.Parent().Version,
			Logger:        wrapped,
			DelegationTTL: cfg.Storage.DelegationTTL,
		}

		//

		storageResolver := credential.NewResolver(credential.ResolverOptions{
			Strategies: credential.DefaultStrategies(credential.StrategyConfig{
				ClientID:         cfg.Identity.ClientID,
				Ambient:          cfg.Identity.Ambient,
				ConnectionString: cfg.Storage.ConnectionString,
				AccountName:      cfg.Storage.AccountName,
				AccountKey:       cfg.Storage.AccountKey,
				AllowSharedKey:   cfg.Identity.AllowSharedKey,
			}),
			Logger: wrapped,
		})

		var issuer *sastoken.Issuer

		if cfg.Storage.AccountName != "" && cfg.Storage.AccountKey != "" {
			var err error

			issuer, err = sastoken.NewIssuer(sastoken.IssuerOptions{
				AccountName: cfg.Storage.AccountName,
				AccountKey:  cfg.Storage.AccountKey,
				Endpoint:    cfg.Storage.Endpoint,
			})
			if err != nil {
				return errors.Wrap(err, "could not create delegation token issuer")
			}
		} else {
			wrapped.Warn("[blobstore] no account key configured, delegated URLs are unavailable")
		}

		var limiter *rate.Limiter
		if cfg.Storage.StreamRateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Storage.StreamRateLimit), cfg.Storage.StreamRateLimit)
		}

		blobs, err := blobstore.NewClient(blobstore.ClientOptions{
			Resolver:    storageResolver,
			AccountName: cfg.Storage.AccountName,
			Endpoint:    cfg.Storage.Endpoint,
			Container:   cfg.Storage.Container,
			Issuer:      issuer,
			StreamLimit: limiter,
			Timeout:     cfg.CallTimeout,
		})
		if err != nil {
			return errors.Wrap(err, "could not create blob client")
		}
		ctrl.Blobs = blobs

		//

		// The control plane audience is separate from the storage one, and
		// only identity material makes sense there.
		sessionResolver := credential.NewResolver(credential.ResolverOptions{
			Strategies: credential.IdentityStrategies(credential.StrategyConfig{
				ClientID: cfg.Identity.ClientID,
				Ambient:  cfg.Identity.Ambient,
			}),
			Logger: wrapped,
		})

		svc, err := sessions.NewClient(sessions.ClientOptions{
			Endpoint:   cfg.Sessions.Endpoint,
			Resolver:   sessionResolver,
			APIVersion: cfg.Sessions.APIVersion,
			Timeout:    cfg.CallTimeout,
		})
		if err != nil {
			return errors.Wrap(err, "could not create session client")
		}
		ctrl.Sessions = svc

		//

		engine := webserver.EchoEngine(ctrl)
		webserver.PrintRoutes(engine)

		lr.Printf("Server listening on %s", cfg.ListenAddress)
		return errors.Wrap(
			engine.Start(cfg.ListenAddress),
			"could not run server",
		)
	},
}
