// Package testutil provides shared test helpers: in-memory repository
// fakes, event doubles and a small harness for exercising gin handlers
// without a running server.
package testutil

import (
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext bundles a gin context with the recorder capturing its
// response
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// ResponseBody returns the recorded response body
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the recorded status code
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}
