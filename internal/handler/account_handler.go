package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
	"github.com/kimostudio/affiliate-dashboard/internal/service"
)

type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)
	filter := repository.AccountFilter{
		Query:      c.Query("q"),
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Limit:      p.PageSize,
		Offset:     p.Offset,
	}

	accounts, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       accounts,
		"pagination": dto.NewPagination(p.Page, p.PageSize, total),
	})
}

func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	account, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) Update(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	account, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
