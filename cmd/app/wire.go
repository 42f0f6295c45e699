//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/daily-briefing/internal/bootstrap"
	"github.com/yanqian/daily-briefing/internal/domain/auth"
	"github.com/yanqian/daily-briefing/internal/domain/briefing"
	"github.com/yanqian/daily-briefing/internal/domain/horoscope"
	"github.com/yanqian/daily-briefing/internal/domain/news"
	"github.com/yanqian/daily-briefing/internal/domain/onboarding"
	"github.com/yanqian/daily-briefing/internal/domain/profile"
	"github.com/yanqian/daily-briefing/internal/domain/weather"
	"github.com/yanqian/daily-briefing/internal/infra/config"
	"github.com/yanqian/daily-briefing/internal/infra/jugemkey"
	"github.com/yanqian/daily-briefing/internal/infra/newsapi"
	"github.com/yanqian/daily-briefing/internal/infra/openweather"
	httpiface "github.com/yanqian/daily-briefing/internal/interface/http"
	"github.com/yanqian/daily-briefing/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideWeatherConfig,
		provideHoroscopeConfig,
		provideNewsConfig,
		provideBriefingConfig,
		provideOnboardingConfig,
		providePostgresPool,
		provideValkeyClient,
		provideAuthRepository,
		provideProfileRepository,
		provideResponseCache,
		provideHoroscopeCache,
		provideSessionStore,
		provideArchive,
		provideWeatherClient,
		provideNewsClient,
		provideHoroscopeClient,
		auth.NewService,
		profile.NewService,
		onboarding.NewService,
		weather.NewResolver,
		weather.NewService,
		horoscope.NewService,
		news.NewService,
		briefing.NewService,
		wire.Bind(new(weather.Geocoder), new(*openweather.Client)),
		wire.Bind(new(weather.Provider), new(*openweather.Client)),
		wire.Bind(new(news.Client), new(*newsapi.Client)),
		wire.Bind(new(horoscope.Client), new(*jugemkey.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
