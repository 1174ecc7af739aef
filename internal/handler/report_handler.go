package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/service"
)

type ReportHandler struct {
	svc      *service.ReportService
	trendSvc *service.TrendService
}

func NewReportHandler(svc *service.ReportService, trendSvc *service.TrendService) *ReportHandler {
	return &ReportHandler{svc: svc, trendSvc: trendSvc}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), period, c.Query("account_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dashboard, err := h.svc.Dashboard(c.Request.Context(), period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *ReportHandler) Periods(c *gin.Context) {
	periods, err := h.svc.Periods(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": periods})
}

func (h *ReportHandler) HTML(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), period, c.Query("account_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	html, err := h.svc.RenderHTML(summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render HTML: " + err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *ReportHandler) Trends(c *gin.Context) {
	period := c.DefaultQuery("period", "MOM")
	metric := c.DefaultQuery("metric", "revenue")
	periodsBack, _ := strconv.Atoi(c.DefaultQuery("periods_back", "6"))
	p := dto.ParsePagination(c)

	if period != "WOW" && period != "MOM" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be WOW or MOM"})
		return
	}

	valid := false
	for _, m := range service.TrendMetrics {
		if m == metric {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid metric, use: revenue, commission, orders, clicks, commission_rate, conversion_rate"})
		return
	}

	results, err := h.trendSvc.GetTrends(c.Request.Context(), c.Query("account_id"), period, metric, periodsBack)
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end := p.Window(len(results))
	c.JSON(http.StatusOK, gin.H{
		"data":       results[start:end],
		"pagination": dto.NewPagination(p.Page, p.PageSize, len(results)),
	})
}
