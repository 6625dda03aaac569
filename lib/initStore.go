package lib

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/ratelimiter"
	"github.com/protegeproject/webprotege-revision-manager/lib/db"
	"github.com/protegeproject/webprotege-revision-manager/lib/revision"
	"github.com/protegeproject/webprotege-revision-manager/lib/settings"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
	"go.uber.org/zap"
)

type InitStore struct {
	C                 *fiber.App
	RetrievedSettings *settings.Settings
	Store             db.DataStore
	Registry          *revision.Registry
	Hub               *ws.Hub
	Validator         *validator.Validate
	Logger            *zap.SugaredLogger
	RateLimiter       *ratelimiter.RateLimiter
}
