package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestJSONEnvelope(t *testing.T) {
	c, rec := newContext()
	JSON(c, http.StatusOK, []string{}, map[string]interface{}{"total": 0})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"total":0}}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestErrorEnvelope(t *testing.T) {
	c, rec := newContext()
	Error(c, appErrors.Clone(appErrors.ErrNotFound, "lesson l9 not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "lesson l9 not found", body.Error.Message)
	assert.Len(t, c.Errors, 1)
}

func TestErrorEnvelopeHidesUntypedErrors(t *testing.T) {
	c, rec := newContext()
	Error(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestAttachmentSanitizesFilename(t *testing.T) {
	c, rec := newContext()
	Attachment(c, `../lesson"plan.csv`, "text/csv", []byte("Date\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=".._lesson_plan.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Date\n", rec.Body.String())
}
