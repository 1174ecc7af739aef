package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/export"
	"github.com/kimostudio/affiliate-dashboard/internal/service"
)

type IncentiveHandler struct {
	svc *service.IncentiveService
}

func NewIncentiveHandler(svc *service.IncentiveService) *IncentiveHandler {
	return &IncentiveHandler{svc: svc}
}

func (h *IncentiveHandler) List(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), period, c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *IncentiveHandler) User(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calc, err := h.svc.ForUser(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *IncentiveHandler) ExportCSV(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), period, c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteIncentives(&buf, overview.Calculations); err != nil {
		_ = c.Error(err)
		return
	}
	sendCSV(c, export.IncentiveFilename(period), buf.Bytes())
}
