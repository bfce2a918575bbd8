package factory

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func NewModuleLogger(module string) logrus.FieldLogger {
	return logrus.StandardLogger().WithField("module", module)
}

// LoggerWithContext attaches the request ID carried by the echo context, when
// one is present.
func LoggerWithContext(logger logrus.FieldLogger, ctx echo.Context) logrus.FieldLogger {
	requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
	if requestID == "" {
		return logger
	}
	return logger.WithField("request_id", requestID)
}
