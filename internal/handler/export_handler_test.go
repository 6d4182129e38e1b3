package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/service"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

type fakeExportSrv struct {
	format   service.ExportFormat
	filter   service.LessonListRequest
	imported []byte
	err      error
}

func (f *fakeExportSrv) Export(_ context.Context, format service.ExportFormat, filter service.LessonListRequest) (*service.ExportResult, error) {
	f.format, f.filter = format, filter
	return &service.ExportResult{Filename: "lesson-planner_20250724_090000." + string(format), ContentType: "text/csv", Payload: []byte("Date,Period\n")}, nil
}

func (f *fakeExportSrv) ImportJSON(_ context.Context, payload []byte) (models.Counts, error) {
	f.imported = payload
	if f.err != nil {
		return models.Counts{}, f.err
	}
	return models.Counts{Classes: 1, Periods: 1, Lessons: 2}, nil
}

func TestExportHandlerStreamsAttachment(t *testing.T) {
	srv := &fakeExportSrv{}
	h := NewExportHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/export?format=csv&classId=c1", nil)
	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, srv.format)
	assert.Equal(t, "c1", srv.filter.ClassID)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "lesson-planner_20250724_090000.csv")
	assert.Equal(t, "Date,Period\n", rec.Body.String())
}

func TestExportHandlerRejectsUnknownFormat(t *testing.T) {
	h := NewExportHandler(&fakeExportSrv{})
	c, rec := newTestContext(http.MethodGet, "/export?format=docx", nil)
	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerImport(t *testing.T) {
	srv := &fakeExportSrv{}
	h := NewExportHandler(srv)

	body := `{"classes":[],"periods":[],"lessons":[]}`
	c, rec := newTestContext(http.MethodPost, "/import", body)
	h.Import(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, string(srv.imported))
	var counts models.Counts
	decodeEnvelope(t, rec, &counts)
	assert.Equal(t, 2, counts.Lessons)
}

func TestExportHandlerImportErrors(t *testing.T) {
	h := NewExportHandler(&fakeExportSrv{err: appErrors.Clone(appErrors.ErrValidation, "lesson l1 references missing class")})
	c, rec := newTestContext(http.MethodPost, "/import", `{}`)
	h.Import(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewExportHandler(&fakeExportSrv{})
	c, rec = newTestContext(http.MethodPost, "/import", strings.Repeat("x", maxImportBytes+1))
	h.Import(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
