package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature is a module that contributes routes to the application.
type Feature interface {
	Name() string
	IsEnabled() bool
	Load(app fiber.Router) error
}

// Manager keeps the registered features.
type Manager struct {
	features []Feature
	logger   *zap.Logger
}

// NewManager creates an empty manager. A nil logger disables logging.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Register adds a feature. Features load in registration order.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// Features returns the registered features.
func (m *Manager) Features() []Feature {
	return append([]Feature(nil), m.features...)
}

// LoadAll loads every enabled feature and returns the names of the loaded ones.
// It stops at the first feature that fails.
func (m *Manager) LoadAll(app fiber.Router) ([]string, error) {
	var loaded []string
	for _, f := range m.features {
		if !f.IsEnabled() {
			m.logger.Info("Feature disabled", zap.String("feature", f.Name()))
			continue
		}
		if err := f.Load(app); err != nil {
			return loaded, fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
		m.logger.Info("Feature loaded", zap.String("feature", f.Name()))
		loaded = append(loaded, f.Name())
	}
	return loaded, nil
}
