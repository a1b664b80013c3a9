package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/apperr"
)

// Envelope is the single response shape for every endpoint: status plus
// either a payload or an error message. The original mixed plain strings
// and bare arrays per endpoint; clients get one shape here.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Status: "ok", Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Status: "ok", Data: data})
}

// respondErr maps the error taxonomy onto HTTP statuses. Transport
// failures keep their cause in the log and a generic message on the wire.
func respondErr(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if apperr.IsTransport(err) || status == http.StatusBadGateway {
		logger.Error("store failure",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "store unavailable"
	}
	c.JSON(status, Envelope{Status: "error", Error: msg})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Envelope{Status: "error", Error: err.Error()})
}
