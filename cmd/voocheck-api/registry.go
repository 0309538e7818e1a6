package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/voocheck/voocheck/config"
	"github.com/voocheck/voocheck/internal/integrations/carrier"
	"github.com/voocheck/voocheck/internal/integrations/carrier/azulhttp"
	"github.com/voocheck/voocheck/internal/integrations/carrier/fake"
	"github.com/voocheck/voocheck/internal/integrations/carrier/golhttp"
	"github.com/voocheck/voocheck/internal/integrations/carrier/latamweb"
	"github.com/voocheck/voocheck/internal/services/batch"
)

func newRegistryFactory(cfg *config.Config) batch.RegistryFactory {
	if cfg.VooCheck.CarrierMode == "live" {
		return &liveRegistry{cfg: cfg}
	}
	return &fakeRegistry{}
}

// fakeRegistry serves deterministic answers for all carriers. Default mode,
// so the service comes up without carrier credentials.
type fakeRegistry struct{}

func (f *fakeRegistry) Build(_ context.Context) batch.Resolver {
	chk := fake.New()
	return carrier.NewRegistry(chk, chk, chk)
}

// liveRegistry acquires fresh carrier tokens for every batch. A failed
// acquisition leaves that carrier's slot empty and only its rows error out.
type liveRegistry struct {
	cfg *config.Config
}

func (l *liveRegistry) Build(ctx context.Context) batch.Resolver {
	vc := l.cfg.VooCheck

	var gol carrier.Checker
	golToken, err := golhttp.NewAuth(vc.GolAuthBaseURL, vc.GolAATHeader).Token(ctx)
	if err != nil {
		slog.Error("gol token acquisition failed", "error", err)
	} else {
		gol = golhttp.New(vc.GolBookingBaseURL, golToken)
	}

	var azul carrier.Checker
	azulToken, err := azulhttp.NewAuth(vc.AzulBaseURL, vc.AzulSubscriptionKey).Token(ctx)
	if err != nil {
		slog.Error("azul token acquisition failed", "error", err)
	} else {
		azul = azulhttp.New(vc.AzulBaseURL, azulToken, vc.AzulSubscriptionKey)
	}

	latam := latamweb.New(
		latamweb.NewChromeFactory(time.Duration(vc.LatamNavTimeoutSeconds)*time.Second),
		vc.LatamBaseURL,
		time.Duration(vc.LatamWaitSeconds)*time.Second,
	)

	return carrier.NewRegistry(gol, azul, latam)
}
