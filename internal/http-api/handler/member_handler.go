package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/service"
)

type MemberHandler struct {
	svc service.MemberService
}

func NewMemberHandler(svc service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:member_id", h.Get)
	rg.POST("/register", h.Register)
	rg.PATCH("/:member_id", h.Update)
	rg.DELETE("/:member_id", h.Archive)
}

func (h *MemberHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit, offset := parsePage(c)
	search := strings.TrimSpace(c.Query("search"))

	list, total, err := h.svc.GetAll(ctx, limit, offset, search)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.MemberResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, dto.FromMemberToResponse(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": dto.Page{Limit: limit, Offset: offset, Total: total},
	})
}

func (h *MemberHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m, err := h.svc.GetByID(ctx, c.Param("member_id"))
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromMemberToResponse(*m))
}

func (h *MemberHandler) Register(c *gin.Context) {
	var in dto.RegisterMemberDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	member := in.ToModel()
	if err := h.svc.Register(ctx, &member); err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromMemberToResponse(member))
}

func (h *MemberHandler) Update(c *gin.Context) {
	var in dto.UpdateMemberDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, c.Param("member_id"), in.ApplyTo)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromMemberToResponse(*updated))
}

func (h *MemberHandler) Archive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Archive(ctx, c.Param("member_id")); err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
