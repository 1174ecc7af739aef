package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/export"
	"github.com/kimostudio/affiliate-dashboard/internal/service"
)

type SalesHandler struct {
	svc *service.SalesService
}

func NewSalesHandler(svc *service.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

func (h *SalesHandler) List(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := dto.ParsePagination(c)

	records, total, err := h.svc.List(c.Request.Context(), period, c.Query("account_id"), p.PageSize, p.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       records,
		"period":     period.String(),
		"pagination": dto.NewPagination(p.Page, p.PageSize, total),
	})
}

func (h *SalesHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	records, validationErrors, err := h.svc.UpsertBatch(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "batch validation failed",
			Errors: validationErrors,
		})
		return
	}

	c.JSON(http.StatusOK, dto.BatchSalesResponse{Upserted: len(records)})
}

// Upload takes a marketplace CSV export in the multipart field "file".
func (h *SalesHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	resp, err := h.svc.Upload(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) Delete(c *gin.Context) {
	deleted, err := h.svc.DeleteForAccount(c.Request.Context(), c.Param("id"), c.Query("start"), c.Query("end"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteSalesResponse{Deleted: deleted})
}

func (h *SalesHandler) Coverage(c *gin.Context) {
	cov, err := h.svc.Coverage(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cov)
}

func (h *SalesHandler) ExportCSV(c *gin.Context) {
	period, err := dto.ParsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, names, err := h.svc.ExportRows(c.Request.Context(), period, c.Query("account_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSales(&buf, records, names); err != nil {
		_ = c.Error(err)
		return
	}
	sendCSV(c, export.SalesFilename(period), buf.Bytes())
}

func sendCSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
