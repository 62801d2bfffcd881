package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

var errDuplicate = errors.New("UNIQUE constraint failed: companion_devices.name")

// serve runs one authenticated request through r.
func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
