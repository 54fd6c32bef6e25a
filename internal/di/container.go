package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"inkq/internal/auth"
	"inkq/internal/auth/config"
	"inkq/internal/shared/eventbus"
	"inkq/internal/shared/logger"
	"inkq/internal/shared/metrics"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu        sync.RWMutex
	services  map[reflect.Type]interface{}
	factories map[reflect.Type]func() (interface{}, error)
	// Module instances
	AuthModule *auth.Module
	// Infrastructure
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	EventBus    eventbus.EventBusInterface
	Metrics     *metrics.Metrics
	// Configuration
	AuthConfig *config.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer() *Container {
	return &Container{
		services:  make(map[reflect.Type]interface{}),
		factories: make(map[reflect.Type]func() (interface{}, error)),
	}
}

// Initialize connects the backing stores and wires the auth module. Redis
// is only dialed when the configured session backend needs it.
func (c *Container) Initialize(ctx context.Context, cfg *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AuthConfig = cfg
	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	c.MongoClient = client
	c.MongoDB = client.Database(cfg.DatabaseName)

	if cfg.SessionBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
		c.RedisClient = rdb
	}

	c.EventBus = eventbus.NewEventBus(c.Logger)
	subscribeAuthLogging(c.EventBus, c.Logger)
	c.Metrics = metrics.NewDefault()

	authModule, err := auth.NewModule(cfg, auth.ModuleDeps{
		Mongo:   c.MongoDB,
		Redis:   c.RedisClient,
		Bus:     c.EventBus,
		Metrics: c.Metrics,
		Log:     c.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule

	return nil
}

// Register registers a service instance
func (c *Container) Register(service interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	c.services[serviceType] = service
	return nil
}

// RegisterFactory registers a factory function for a service
func (c *Container) RegisterFactory(serviceType reflect.Type, factory func() (interface{}, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.factories[serviceType] = factory
	return nil
}

// Resolve resolves a service by type
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()

	if service, exists := c.services[serviceType]; exists {
		c.mu.RUnlock()
		return service, nil
	}

	if factory, exists := c.factories[serviceType]; exists {
		c.mu.RUnlock()

		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service: %w", err)
		}

		c.mu.Lock()
		c.services[serviceType] = service
		c.mu.Unlock()

		return service, nil
	}

	c.mu.RUnlock()
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf(zero)

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// HealthCheck pings the backing stores
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}

	return nil
}

// Cleanup performs cleanup of registered services with proper shutdown order
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errors []error

	c.AuthModule = nil

	c.EventBus = nil

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close Redis client: %w", err))
		}
		c.RedisClient = nil
	}

	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errors = append(errors, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}

	for _, service := range c.services {
		if cleaner, ok := service.(interface{ Cleanup(context.Context) error }); ok {
			if err := cleaner.Cleanup(ctx); err != nil {
				errors = append(errors, fmt.Errorf("failed to cleanup service: %w", err))
			}
		}
	}

	c.services = make(map[reflect.Type]interface{})
	c.factories = make(map[reflect.Type]func() (interface{}, error))

	if len(errors) > 0 {
		return fmt.Errorf("cleanup errors: %v", errors)
	}

	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return c.Cleanup(ctx)
}

// subscribeAuthLogging mirrors the auth lifecycle into the structured log.
func subscribeAuthLogging(bus eventbus.EventBusInterface, log logger.Logger) {
	audit := log.WithComponent("auth-events")
	for _, eventType := range []string{
		eventbus.EventTypeUserSignedUp,
		eventbus.EventTypeUserSignedIn,
		eventbus.EventTypeUserSignedOut,
		eventbus.EventTypeSessionExpired,
		eventbus.EventTypeSessionRejected,
	} {
		bus.Subscribe(eventType, func(ctx context.Context, event eventbus.Event) error {
			audit.WithFields(map[string]interface{}{
				"event": event.Type(),
				"data":  event.Data(),
			}).Info("auth event")
			return nil
		})
	}
}
