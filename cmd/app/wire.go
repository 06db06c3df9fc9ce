//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faq-chatbot/internal/bootstrap"
	"github.com/yanqian/faq-chatbot/internal/domain/faq"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
	httpiface "github.com/yanqian/faq-chatbot/internal/interface/http"
	"github.com/yanqian/faq-chatbot/pkg/logger"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewCollector,
		provideFAQConfig,
		provideRepository,
		provideQueryLog,
		provideObjectStorage,
		faq.NewService,
		faq.NewExporter,
		wire.Bind(new(faq.Recorder), new(*metrics.Collector)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
