package main

import (
	"net/http"
	"time"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func timestamp() string {
	return time.Now().UTC().Format(isoMillis)
}

// rootHandler godoc
//
//	@Summary		Service banner
//	@Description	Reports that the relay is running.
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/ [get]
func (app *application) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Chapa Payment Gateway API",
		"status":    "running",
		"timestamp": timestamp(),
	})
}

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Healthcheck endpoint
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":    "OK",
		"service":   "Chapa Payment Gateway",
		"timestamp": timestamp(),
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		app.logger.Errorw("write health response", "error", err)
	}
}
