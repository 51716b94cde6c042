package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/flagbox/internal/observability/logger"
)

// WriteError escribe la respuesta HTTP para un error. Los 500 se loguean
// server-side con un nombre de evento estable; el cliente solo recibe el
// envelope genérico.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.Path(r.URL.Path),
			logger.Status(appErr.HTTPStatus),
			logger.Err(appErr),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr)
}
