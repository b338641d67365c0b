package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// failure maps a service error to an HTTP error with a localized message.
// Store errors become a generic 500 and their text is only logged.
func failure(l *slog.Logger, tr *i18n.Translator, event string, err error) error {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotFound) {
			status = http.StatusNotFound
		}
		l.Warn(event, "status", status, "reason", string(svcErr.Key), "field", svcErr.Field, "error", err)
		return echo.NewHTTPError(status, tr.T(svcErr.Key, svcErr.Args...))
	}

	l.Error(event, "status", http.StatusInternalServerError, "reason", "store error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, tr.T(i18n.InternalError))
}

func badRequest(l *slog.Logger, tr *i18n.Translator, event string, key i18n.Key, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", string(key), "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, tr.T(key))
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func message(tr *i18n.Translator, key i18n.Key) transport.MessageResponse {
	return transport.MessageResponse{Message: tr.T(key)}
}
