package main

import (
	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/tlgate"
	"github.com/ZaguanLabs/tlgate/cache"
	"github.com/ZaguanLabs/tlgate/internal/config"
	"github.com/ZaguanLabs/tlgate/internal/httpapi"
	"github.com/ZaguanLabs/tlgate/internal/langdetect"
	"github.com/ZaguanLabs/tlgate/processor"
	"github.com/ZaguanLabs/tlgate/provider"
)

// app holds the components shared by serve and translate.
type app struct {
	translator *tlgate.Translator
	cache      *cache.LRUCache
	limiter    *tlgate.SlidingWindowLimiter
	languages  []tlgate.Language
}

func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	languages, err := tlgate.LoadLanguages(cfg.LanguagesFile)
	if err != nil {
		return nil, err
	}

	p := provider.NewArkProvider(provider.ArkConfig{
		APIKey:  cfg.ArkAPIKey,
		URL:     cfg.ArkAPIURL,
		Model:   cfg.ArkModel,
		Timeout: cfg.ProviderTimeout,
	})

	c := cache.NewLRUCache(cfg.CacheMaxSize, cfg.CacheTTL())
	l := tlgate.NewSlidingWindowLimiter(tlgate.RateLimitConfig{
		Window:      cfg.RateLimitWindow,
		MaxRequests: cfg.RateLimitRPM,
	})

	t := tlgate.NewTranslator(p,
		tlgate.WithCache(c),
		tlgate.WithRateLimiter(l),
		tlgate.WithProcessor(processor.NewHTMLProcessor()),
		tlgate.WithMaxTextLength(cfg.MaxTextLength),
		tlgate.WithChunkSize(cfg.ChunkSize),
		tlgate.WithLogger(logger),
	)

	return &app{
		translator: t,
		cache:      c,
		limiter:    l,
		languages:  languages,
	}, nil
}

// server builds the HTTP server. Language detection is disabled, with a
// warning, when the configured languages give lingua too little to work with.
func (a *app) server(cfg *config.Config, logger zerolog.Logger) *httpapi.Server {
	deps := httpapi.Deps{
		Translator: a.translator,
		Cache:      a.cache,
		Limiter:    a.limiter,
		Languages:  a.languages,
	}

	codes := make([]string, 0, len(a.languages))
	for _, lang := range a.languages {
		codes = append(codes, lang.Code)
	}
	detector, err := langdetect.New(codes, langdetect.WithPreload())
	if err != nil {
		logger.Warn().Err(err).Msg("language detection disabled")
	} else {
		deps.Detector = detector
	}

	return httpapi.NewServer(deps, logger, httpapi.Options{
		Host:      cfg.Host,
		Port:      cfg.Port,
		StaticDir: cfg.StaticDir,
	})
}
