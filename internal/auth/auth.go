package auth

import (
	"fmt"

	authhttp "inkq/internal/auth/adapter/http"
	"inkq/internal/auth/adapter/persistence/mongodb"
	"inkq/internal/auth/adapter/persistence/redisrepo"
	"inkq/internal/auth/adapter/security"
	"inkq/internal/auth/config"
	"inkq/internal/auth/domain/repository"
	"inkq/internal/auth/usecase"
	"inkq/internal/shared/eventbus"
	"inkq/internal/shared/logger"
	"inkq/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module bundles the session service: repositories, credential
// verification, the auth endpoints and the request gate.
type Module struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	usecase  usecase.AuthUsecaseInterface
	handler  *authhttp.AuthHTTPHandler
	gate     *authhttp.RequestGate
	config   *config.Config
}

// ModuleDeps carries the process-level dependencies the module wires
// against. Redis may be nil when the session backend is Mongo.
type ModuleDeps struct {
	Mongo   *mongo.Database
	Redis   *redis.Client
	Bus     eventbus.EventBusInterface
	Metrics *metrics.Metrics
	Log     logger.Logger
}

// NewModule creates a new session service module instance
func NewModule(cfg *config.Config, deps ModuleDeps) (*Module, error) {
	mongoRepo, err := mongodb.NewMongoAuthRepository(deps.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth repository: %w", err)
	}

	var sessions repository.SessionRepository = mongoRepo
	if cfg.SessionBackend == "redis" {
		if deps.Redis == nil {
			return nil, fmt.Errorf("session backend is redis but no redis client was provided")
		}
		sessions = redisrepo.NewRedisSessionRepository(deps.Redis, deps.Log)
	}

	hasher, err := security.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create password service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(
		mongoRepo,
		sessions,
		hasher,
		security.NewSessionTokenSource(),
		deps.Bus,
		cfg,
		deps.Log,
	)

	cookies := authhttp.CookieOptionsFromConfig(cfg)

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		cookies,
		cfg.DefaultLocale,
		deps.Metrics,
		deps.Log,
	)

	gate := authhttp.NewRequestGate(
		authUsecase,
		cookies,
		cfg.DefaultLocale,
		cfg.ResolveTimeout,
		deps.Metrics,
		deps.Log,
	)

	return &Module{
		users:    mongoRepo,
		sessions: sessions,
		usecase:  authUsecase,
		handler:  handler,
		gate:     gate,
		config:   cfg,
	}, nil
}

// RegisterRoutes registers the auth endpoints with the provided router
func (m *Module) RegisterRoutes(router fiber.Router) {
	m.handler.SetupAuthRoutes(router)
}

// Gate returns the request gate middleware for app-wide registration
func (m *Module) Gate() fiber.Handler {
	return m.gate.Handler()
}

// Usecase returns the auth usecase for external access
func (m *Module) Usecase() usecase.AuthUsecaseInterface {
	return m.usecase
}
