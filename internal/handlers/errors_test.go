package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagontorron/needitv1/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.InvalidArg("bad"), fiber.StatusBadRequest},
		{apperr.Unauthenticated("who"), fiber.StatusUnauthorized},
		{apperr.Forbidden("no"), fiber.StatusForbidden},
		{apperr.NotFound("gone"), fiber.StatusNotFound},
		{apperr.AlreadyExists("dup"), fiber.StatusConflict},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("gone")), fiber.StatusNotFound},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondError(c, errors.New("connection refused to 10.0.0.3"))
	})
	app.Get("/client", func(c *fiber.Ctx) error {
		return RespondError(c, apperr.InvalidArg("price must not be negative"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/internal", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "10.0.0.3")
	assert.Contains(t, string(body), "Internal server error")

	resp, err = app.Test(httptest.NewRequest("GET", "/client", nil), -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":true,"message":"price must not be negative"}`, string(body))
}
