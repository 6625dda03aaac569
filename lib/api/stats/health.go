package stats

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
)

type DBChecker struct {
	db db.DataStore
}

func (d DBChecker) Name() string {
	return "database"
}

func (d DBChecker) Check() Check {
	if err := d.db.Ping(); err != nil {
		return Check{
			Status: StatusFail,
			Output: err.Error(),
		}
	}

	return Check{
		Status:     StatusPass,
		Observed:   "ok",
		ObservedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

type RegistryChecker struct {
	registry *revision.Registry
}

func (r RegistryChecker) Name() string {
	return "revisions"
}

func (r RegistryChecker) Check() Check {
	return Check{
		Status:    StatusPass,
		Component: "openDocuments",
		Observed:  len(r.registry.DocumentIDs()),
	}
}

type HubChecker struct {
	hub *ws.Hub
}

func (h HubChecker) Name() string {
	return "websocket"
}

func (h HubChecker) Check() Check {
	return Check{
		Status:    StatusPass,
		Component: "clients",
		Observed:  h.hub.ClientCount(),
	}
}

// Handler answers with the health of every checker, RFC health check draft style.
func Handler(serviceID string, checkers []Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := HealthResponse{
			Status:    StatusPass,
			ServiceID: serviceID,
			Checks:    map[string][]Check{},
		}

		httpStatus := fiber.StatusOK

		for _, checker := range checkers {
			check := checker.Check()
			resp.Checks[checker.Name()] = []Check{check}

			switch check.Status {
			case StatusFail:
				resp.Status = StatusFail
				httpStatus = fiber.StatusServiceUnavailable
			case StatusWarn:
				if resp.Status != StatusFail {
					resp.Status = StatusWarn
				}
			}
		}

		return c.Status(httpStatus).JSON(resp)
	}
}
