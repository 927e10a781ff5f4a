package handler

import (
	"context"
	"net/http"
	"time"

	"click-tracker/internal/metrics"
	"click-tracker/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const htmlContentType = "text/html; charset=utf-8"

var (
	indexPage         = []byte("<h3>Click Tracker activo - Proyecto ENVÍOS</h3>")
	missingParamsPage = []byte("<h3>Faltan parámetros requeridos</h3>")
	invalidTokenPage  = []byte("<h3>Token inválido</h3>")
)

// ClickRecorder is the persistence the handlers need
type ClickRecorder interface {
	RecordClick(ctx context.Context, tok, destination string, at time.Time) (bool, error)
	Ping(ctx context.Context) error
}

// Timeouts bound the database work done per request
type Timeouts struct {
	Record time.Duration
	Status time.Duration
}

// ClickHandler serves the tracking endpoints
type ClickHandler struct {
	store    ClickRecorder
	signer   *token.Signer
	location *time.Location
	timeouts Timeouts
	logger   *zap.Logger
	now      func() time.Time
}

// NewClickHandler creates the handler. Click timestamps are taken in loc,
// or UTC when loc is nil.
func NewClickHandler(store ClickRecorder, signer *token.Signer, loc *time.Location, timeouts Timeouts, logger *zap.Logger) *ClickHandler {
	if loc == nil {
		loc = time.UTC
	}
	if timeouts.Record <= 0 {
		timeouts.Record = 5 * time.Second
	}
	if timeouts.Status <= 0 {
		timeouts.Status = 2 * time.Second
	}
	return &ClickHandler{
		store:    store,
		signer:   signer,
		location: loc,
		timeouts: timeouts,
		logger:   logger.Named("click"),
		now:      time.Now,
	}
}

// IndexPage godoc
// @Summary Liveness page
// @Tags Status
// @Produce html
// @Success 200 {string} string "service is running"
// @Router / [get]
func (h *ClickHandler) IndexPage(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, indexPage)
}

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp,omitempty" example:"2025-03-10T17:30:00.123456Z"`
}

// Status godoc
// @Summary Database health check
// @Description Runs SELECT 1 against the database
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} StatusResponse
// @Router /status [get]
func (h *ClickHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeouts.Status)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("status check failed", zap.Error(err))
		metrics.StatusChecks.WithLabelValues(metrics.ResultError).Inc()
		c.JSON(http.StatusInternalServerError, StatusResponse{Status: "error"})
		return
	}

	metrics.StatusChecks.WithLabelValues(metrics.ResultOK).Inc()
	c.JSON(http.StatusOK, StatusResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Click godoc
// @Summary Track a click and redirect
// @Description Verifies the link token, counts the click on the matching envio and redirects to url.
// @Description Recording is best effort: once the token checks out the redirect always happens.
// @Tags Click
// @Produce html
// @Param from  query string true "sender"
// @Param to    query string true "recipient"
// @Param url   query string true "destination URL"
// @Param token query string true "hex SHA-256 link signature"
// @Success 302 {string} string "redirect to url"
// @Failure 400 {string} string "missing parameters"
// @Failure 403 {string} string "invalid token"
// @Router /click [get]
func (h *ClickHandler) Click(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	destination := c.Query("url")
	presented := c.Query("token")

	if from == "" || to == "" || destination == "" || presented == "" {
		metrics.ClickRequests.WithLabelValues(metrics.ResultMissingParams).Inc()
		c.Data(http.StatusBadRequest, htmlContentType, missingParamsPage)
		return
	}

	if !h.signer.Verify(from, to, destination, presented) {
		metrics.ClickRequests.WithLabelValues(metrics.ResultInvalidToken).Inc()
		c.Data(http.StatusForbidden, htmlContentType, invalidTokenPage)
		return
	}

	clickedAt := h.now().In(h.location)
	h.recordClick(c.Request.Context(), presented, destination, clickedAt)

	// sent as signed; http.Redirect would resolve and clean relative targets
	c.Header("Location", destination)
	c.Status(http.StatusFound)
}

// recordClick never fails the request; problems are logged and dropped.
func (h *ClickHandler) recordClick(reqCtx context.Context, tok, destination string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), h.timeouts.Record)
	defer cancel()

	matched, err := h.store.RecordClick(ctx, tok, destination, at)
	switch {
	case err != nil:
		metrics.ClickRequests.WithLabelValues(metrics.ResultError).Inc()
		h.logger.Error("failed to record click",
			zap.String("token", tok),
			zap.Error(err),
			zap.Stack("stack"),
		)
	case !matched:
		metrics.ClickRequests.WithLabelValues(metrics.ResultUnmatched).Inc()
		h.logger.Warn("no envio found for token", zap.String("token", tok))
	default:
		metrics.ClickRequests.WithLabelValues(metrics.ResultRecorded).Inc()
		h.logger.Info("click counted", zap.String("token", tok))
	}
}
