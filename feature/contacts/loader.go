package contacts

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface for contacts.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates a new contacts feature.
func NewFeature(service *Service, cfg Config) *Feature {
	return &Feature{service: service, handler: NewHandler(service), enabled: cfg.Enabled}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "contacts"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
