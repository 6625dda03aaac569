package stats

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingChecker struct{}

func (failingChecker) Name() string { return "broken" }

func (failingChecker) Check() Check {
	return Check{Status: StatusFail, Output: errors.New("unreachable").Error()}
}

func TestHealthPasses(t *testing.T) {
	store := testutils.NewTestInitStore(t)
	Init(store)
	_, err := store.Registry.Open("doc-1")
	require.NoError(t, err)

	status, body := testutils.DoRequest(t, store.C, "GET", "/health", nil)
	require.Equal(t, 200, status)
	response := testutils.DecodeJSON[HealthResponse](t, body)
	assert.Equal(t, StatusPass, response.Status)
	require.Contains(t, response.Checks, "database")
	require.Contains(t, response.Checks, "revisions")
	assert.Equal(t, float64(1), response.Checks["revisions"][0].Observed)
}

func TestHealthFailsWithAFailingCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", Handler("test", []Checker{failingChecker{}}))

	status, body := testutils.DoRequest(t, app, "GET", "/health", nil)
	assert.Equal(t, 503, status)
	response := testutils.DecodeJSON[HealthResponse](t, body)
	assert.Equal(t, StatusFail, response.Status)
	assert.Equal(t, "unreachable", response.Checks["broken"][0].Output)
}
