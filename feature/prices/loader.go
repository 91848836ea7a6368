package prices

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the prices feature over an existing service.
func NewFeature(service *Service) *Feature {
	return &Feature{service: service, handler: NewHandler(service)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "prices"
}

// IsEnabled reports whether the feature has a sheet to read prices from.
func (f *Feature) IsEnabled() bool {
	return f.service != nil && f.service.rows != nil && f.service.items != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
