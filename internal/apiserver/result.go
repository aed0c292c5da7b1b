package apiserver

import (
	"encoding/json"
	"log"
	"net/http"
)

// result is a prepared HTTP response body plus the status it will be sent
// with, grounded on the teacher's server/result.Result: an endpoint builds
// one of these instead of writing to the ResponseWriter directly, so that
// logging and marshaling happen in exactly one place.
type result struct {
	status  int
	payload interface{}
	userMsg string
	logMsg  string
}

func ok(payload interface{}, logMsg string) result {
	return result{status: http.StatusOK, payload: payload, logMsg: logMsg}
}

func created(payload interface{}, logMsg string) result {
	return result{status: http.StatusCreated, payload: payload, logMsg: logMsg}
}

func errResult(status int, userMsg, logMsg string) result {
	return result{status: status, userMsg: userMsg, logMsg: logMsg}
}

func badRequest(userMsg string) result {
	return errResult(http.StatusBadRequest, userMsg, "bad request: "+userMsg)
}

func notFound(userMsg string) result {
	return errResult(http.StatusNotFound, userMsg, "not found: "+userMsg)
}

func unauthorized(logMsg string) result {
	return errResult(http.StatusUnauthorized, "authentication required", logMsg)
}

func internalError(logMsg string) result {
	return errResult(http.StatusInternalServerError, "an internal error occurred", logMsg)
}

type errorBody struct {
	Error string `json:"error"`
}

func (r result) write(w http.ResponseWriter, req *http.Request) {
	if r.status >= 400 {
		log.Printf("ERROR: %s %s: HTTP-%d: %s", req.Method, req.URL.Path, r.status, r.logMsg)
	} else {
		log.Printf("INFO: %s %s: HTTP-%d: %s", req.Method, req.URL.Path, r.status, r.logMsg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)

	if r.status >= 400 {
		json.NewEncoder(w).Encode(errorBody{Error: r.userMsg})
		return
	}
	if r.payload != nil {
		json.NewEncoder(w).Encode(r.payload)
	}
}

// endpointFunc is a handler that returns a result instead of writing to the
// ResponseWriter, per the teacher's Endpoint/EndpointFunc pattern.
type endpointFunc func(req *http.Request) result

func endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		ep(req).write(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if rec := recover(); rec != nil {
		log.Printf("ERROR: %s %s: panic recovered: %v", req.Method, req.URL.Path, rec)
		internalError("panic recovered").write(w, req)
	}
}
