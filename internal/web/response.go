package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// envelope wraps every JSON response body.
type envelope struct {
	Status int `json:"Status"`
	Body   any `json:"Body,omitempty"`
}

type errorBody struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const internalErrorJSON = "{\"Status\": 500,\"Body\":{\"ErrorDescription\": \"Internal server error\"}}"

func writeJSON(w http.ResponseWriter, status int, body any) {
	raw, err := json.Marshal(envelope{Status: status, Body: body})
	if err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}
