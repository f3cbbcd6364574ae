//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/surf-forecast/internal/bootstrap"
	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/config"
	httpiface "github.com/yanqian/surf-forecast/internal/interface/http"
	"github.com/yanqian/surf-forecast/pkg/logger"
	"github.com/yanqian/surf-forecast/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewMetrics,
		provideForecastConfig,
		provideLocationRepository,
		provideBlobRepository,
		provideWindowReader,
		provideForecastCache,
		provideForecastService,
		provideRefreshers,
		location.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
