package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"commerce-events-go/internal/auth"
	"commerce-events-go/internal/config"
	apierrors "commerce-events-go/internal/errors"
	"commerce-events-go/internal/events"
	"commerce-events-go/internal/ims"
	"commerce-events-go/internal/logging"
	log "github.com/sirupsen/logrus"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: evctl [flags] <command>

Commands:
  providers        List event providers
  metadata         List event metadata of a provider (requires -provider)
  registrations    List registrations of the configured workspace

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	providerID := flag.String("provider", "", "Provider id for the metadata command")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	identity := ims.NewContext()
	if err := identity.Set(cfg.IMS.ContextName, ims.Config{
		TokenURL:              cfg.IMS.TokenURL,
		ClientID:              cfg.IMS.ClientID,
		ClientSecrets:         cfg.IMS.ClientSecrets,
		TechnicalAccountID:    cfg.IMS.TechnicalAccountID,
		TechnicalAccountEmail: cfg.IMS.TechnicalAccountEmail,
		OrgID:                 cfg.IMS.OrgID,
		Scopes:                cfg.IMS.Scopes,
	}); err != nil {
		log.WithError(err).Fatal("invalid identity configuration")
	}

	ec := events.New(
		cfg.Events.BaseURL,
		cfg.Events.APIKey,
		cfg.Events.ConsumerID,
		cfg.Events.ProjectID,
		cfg.Events.WorkspaceID,
		auth.NewDelegatedStrategy(identity),
	)

	ctx := context.Background()
	switch flag.Arg(0) {
	case "providers":
		providers, apiErr := ec.ListProviders(ctx)
		exitOn(apiErr)
		printJSON(providers)
	case "metadata":
		if *providerID == "" {
			log.Fatal("metadata command requires -provider")
		}
		metadata, apiErr := ec.ListEventMetadata(ctx, *providerID)
		exitOn(apiErr)
		printJSON(metadata)
	case "registrations":
		registrations, apiErr := ec.ListRegistrations(ctx)
		exitOn(apiErr)
		printJSON(registrations)
	default:
		usage()
		os.Exit(2)
	}
}

func exitOn(apiErr *apierrors.APIError) {
	if apiErr != nil {
		log.WithField("status", apiErr.StatusCode).Fatal(apiErr.Message)
	}
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("failed to encode output")
	}
	fmt.Println(string(out))
}
