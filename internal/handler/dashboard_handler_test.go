package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/internal/dto"
	"github.com/noah-isme/lesson-planner-api/internal/models"
)

type fakeDashboardSrv struct {
	summary *dto.DashboardSummary
	hit     bool
	err     error
}

func (f *fakeDashboardSrv) Summary(context.Context) (*dto.DashboardSummary, bool, error) {
	return f.summary, f.hit, f.err
}

func TestDashboardHandlerSummarySuccess(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		summary: &dto.DashboardSummary{
			Today:    models.MustParseDate("2025-07-24"),
			Totals:   dto.DashboardTotals{Lessons: 6, Classes: 2, Periods: 3},
			ThisWeek: 4,
		},
		hit: true,
	})

	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)
	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary dto.DashboardSummary
	envelope := decodeEnvelope(t, rec, &summary)
	assert.Equal(t, 6, summary.Totals.Lessons)
	assert.Equal(t, 4, summary.ThisWeek)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestDashboardHandlerSummaryError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})

	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)
	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeEnvelope(t, rec, nil)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestDashboardHandlerWithoutService(t *testing.T) {
	handler := NewDashboardHandler(nil)
	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)
	handler.Summary(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
