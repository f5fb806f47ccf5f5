package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EasterCompany/dex-voice-service/cache"
	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/dialogue"
	"github.com/EasterCompany/dex-voice-service/endpoints"
	"github.com/EasterCompany/dex-voice-service/llm"
	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/EasterCompany/dex-voice-service/session"
	"github.com/EasterCompany/dex-voice-service/startup"
	"github.com/EasterCompany/dex-voice-service/stt"
	"github.com/EasterCompany/dex-voice-service/tts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// ServiceName identifies this service in logs and on /status.
const ServiceName = "dex-voice-service"

// healthCheckInterval is how often collaborators are pinged for /status.
const healthCheckInterval = 30 * time.Second

// App holds every long-lived dependency of the service.
type App struct {
	Config  *config.Config
	Redis   *cache.RedisClient
	Store   session.Store
	LLM     services.LLMService
	STT     services.STTService
	TTS     services.TTSService
	Router  *dialogue.Router
	Health  *services.HealthChecker
	Handler *endpoints.Handler

	server  *http.Server
	verbose bool
}

// NewApp builds the logger, the session store and every collaborator named in cfg.
func NewApp(ctx context.Context, cfg *config.Config, verbose bool) (*App, error) {
	if _, err := logger.Init(cfg.Log, verbose); err != nil {
		return nil, fmt.Errorf("could not initialize logger: %w", err)
	}

	a := &App{Config: cfg, verbose: verbose}

	if cfg.Session.Backend == "redis" || cfg.Log.RedisSink {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		switch {
		case err != nil && cfg.Session.Backend == "redis":
			return nil, fmt.Errorf("could not initialize session cache: %w", err)
		case err != nil:
			logger.Warn("redis log sink disabled", zap.Error(err))
		default:
			a.Redis = client
		}
	}

	if cfg.Log.RedisSink && a.Redis != nil {
		sink := zapcore.AddSync(cache.NewLogWriter(a.Redis))
		if _, err := logger.Init(cfg.Log, verbose, sink); err != nil {
			return nil, fmt.Errorf("could not initialize logger: %w", err)
		}
	}

	if cfg.Session.Backend == "redis" {
		a.Store = session.NewRedisStore(a.Redis, cfg.Session.TTL.Duration)
	} else {
		a.Store = session.NewMemoryStore()
	}

	var err error
	if a.LLM, err = llm.New(ctx, cfg.LLM); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	if a.STT, err = stt.New(ctx, cfg.STT); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize STT client: %w", err)
	}
	if a.TTS, err = tts.New(ctx, cfg.TTS); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize TTS client: %w", err)
	}

	a.Router = dialogue.NewRouter(a.Store, a.LLM, dialogue.Options{
		Params:       llm.Params(cfg.LLM),
		HistoryTurns: cfg.LLM.HistoryTurns,
		MaxSentences: cfg.LLM.MaxSentences,
		MaxChars:     cfg.LLM.MaxChars,
	})

	a.Health = services.NewHealthChecker(healthCheckInterval)
	for _, c := range a.collaborators() {
		if c.Pinger != nil {
			a.Health.RegisterService(c.Name, c.Pinger)
		}
	}

	status := services.NewStatusServer(ServiceName, a.Health, a.Store.Count)
	a.Handler = endpoints.NewHandler(a.Router, a.STT, a.TTS, status, endpoints.Options{
		DefaultVoice:   tts.DefaultVoice(cfg.TTS),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		RequestTimeout: cfg.Server.RequestTimeout.Duration,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	a.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// collaborators lists the backends for the boot report and health checker.
func (a *App) collaborators() []startup.Collaborator {
	c := []startup.Collaborator{
		{Name: "LLM", Backend: a.Config.LLM.Backend, Service: a.LLM},
		{Name: "STT", Backend: a.Config.STT.Backend, Service: a.STT},
		{Name: "TTS", Backend: a.Config.TTS.Backend, Service: a.TTS},
	}
	if p, ok := a.LLM.(services.Pinger); ok {
		c[0].Pinger = p
	}
	if a.Redis != nil {
		client := a.Redis
		c = append(c, startup.Collaborator{
			Name:    "Redis",
			Backend: a.Config.Redis.Addr,
			Pinger: services.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}),
		})
	}
	return c
}

// Run warms the model up, serves HTTP and blocks until ctx is cancelled or
// SIGINT/SIGTERM arrives. Collaborators are closed before it returns.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.Close()

	if a.Config.LLM.Warmup {
		startup.Warmup(ctx, a.LLM, llm.Params(a.Config.LLM))
	}
	startup.Report(ctx, a.collaborators())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Health.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("voice service listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("voice service shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout.Duration)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases collaborators that hold connections. It is safe to call more than once.
func (a *App) Close() {
	for _, svc := range []any{a.LLM, a.STT, a.TTS} {
		if c, ok := svc.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("error closing collaborator", zap.Error(err))
			}
		}
	}
	a.LLM, a.STT, a.TTS = nil, nil, nil

	if a.Redis != nil && a.Config.Log.RedisSink {
		// Stop mirroring logs before the client goes away.
		logger.Sync()
		if _, err := logger.Init(a.Config.Log, a.verbose); err != nil {
			logger.Set(zap.NewNop())
		}
	}

	// A redis store owns the shared client.
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			logger.Warn("error closing session store", zap.Error(err))
		}
		if _, ok := a.Store.(*session.RedisStore); ok {
			a.Redis = nil
		}
		a.Store = nil
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
		a.Redis = nil
	}
	logger.Sync()
}
