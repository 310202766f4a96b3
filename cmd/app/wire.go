//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/hermate-ai/internal/bootstrap"
	"github.com/yanqian/hermate-ai/internal/domain/symptomadvice"
	"github.com/yanqian/hermate-ai/internal/infra/config"
	httpiface "github.com/yanqian/hermate-ai/internal/interface/http"
	"github.com/yanqian/hermate-ai/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGenerator,
		symptomadvice.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
