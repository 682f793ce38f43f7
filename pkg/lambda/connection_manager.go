package lambda

import (
	"context"
	"sync"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/config"
	"church-portal-api/internal/logging"
	"church-portal-api/pkg/server"
)

// SetupFunc registers a function's routes using services from the container
type SetupFunc func(container *server.Container, router *Router) error

// ConnectionManager keeps the container and router alive across warm
// invocations of a Lambda function
type ConnectionManager struct {
	container   *server.Container
	router      *Router
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	initOnce    sync.Once
	initErr     error
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize loads configuration, builds the container and runs setup.
// Only the first call does any work; later calls return its error.
func (cm *ConnectionManager) Initialize(ctx context.Context, setup SetupFunc) error {
	cm.initOnce.Do(func() {
		cfg, err := config.GetOptimizedConfig(ctx)
		if err != nil {
			cm.initErr = err
			return
		}
		logger := logging.New(cfg.LogLevel, cfg.LogFormat)

		container, err := server.NewContainer(ctx, cfg, logger)
		if err != nil {
			cm.initErr = err
			return
		}
		cm.initErr = cm.initWith(container, setup)
	})
	return cm.initErr
}

func (cm *ConnectionManager) initWith(container *server.Container, setup SetupFunc) error {
	router := NewRouter(container.Logger)
	if err := setup(container, router); err != nil {
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.container = container
	cm.router = router
	cm.lastUsed = time.Now()
	cm.initialized = true
	return nil
}

// Router returns the initialized router, or nil before Initialize succeeds
func (cm *ConnectionManager) Router() *Router {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
	return cm.router
}

// IsHealthy checks if the connection manager is healthy
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	// Check if connection is stale (older than 5 minutes)
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup performs cleanup operations
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.router = nil
	cm.initialized = false
	return nil
}

// Start initializes the function at cold start and hands its router to the
// Lambda runtime. It does not return.
func Start(setup SetupFunc) {
	cm := GetConnectionManager()
	if err := cm.Initialize(context.Background(), setup); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize function")
	}
	awslambda.Start(cm.Router().APIGatewayHandler())
}
