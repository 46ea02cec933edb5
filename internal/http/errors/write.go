package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/roleviews/internal/observability/logger"
)

// body es lo único que ve el cliente; la causa queda en el log.
type body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError responde err como JSON con el status de su AppError. Los 5xx se
// loguean con la causa en el logger del request.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := FromError(err)
	if e.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.String("code", e.Code),
			logger.Int("status", e.HTTPStatus),
			logger.Err(e.Err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.HTTPStatus)
	_ = json.NewEncoder(w).Encode(body{Code: e.Code, Message: e.Message, Detail: e.Detail})
}
