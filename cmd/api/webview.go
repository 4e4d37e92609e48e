package main

import (
	_ "embed"
	"net/http"
)

//go:embed static/close.html
var closeWebviewPage []byte

// closeWebviewHandler serves the page Chapa returns the user to after checkout.
// The page asks the embedding webview to close itself.
func (app *application) closeWebviewHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Referrer-Policy", "no-referrer")

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(closeWebviewPage)
}
