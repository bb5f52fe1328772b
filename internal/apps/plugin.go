package apps

import "github.com/gofiber/fiber/v2"

// Plugin is a feature area that mounts its own routes.
type Plugin interface {
	// ID returns the unique feature identifier, used in logs.
	ID() string

	// RegisterRoutes mounts the feature's routes. public is prefixed with
	// /api; protected is prefixed with /api/p and has JWT middleware applied.
	RegisterRoutes(public, protected fiber.Router)
}
