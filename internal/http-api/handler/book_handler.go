package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/service"
)

type BookHandler struct {
	svc     service.BookService
	lending service.LendingService
}

func NewBookHandler(svc service.BookService, lending service.LendingService) *BookHandler {
	return &BookHandler{svc: svc, lending: lending}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/overdue", h.Overdue)
	rg.GET("/:book_id", h.Get)
	rg.GET("/:book_id/history", h.History)
	rg.POST("", h.Create)
	rg.PATCH("/:book_id", h.Update)
	rg.DELETE("/:book_id", h.Archive)
	rg.PUT("/:book_id/borrow/:member_id", h.Borrow)
	rg.PUT("/:book_id/return", h.Return)
}

// parsePage reads limit/offset with the original defaults (10/0).
func parsePage(c *gin.Context) (limit, offset int) {
	limit, offset = 10, 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// statusFromErr maps service sentinels onto transport statuses.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBookAlreadyBorrowed),
		errors.Is(err, service.ErrBookNotBorrowed),
		errors.Is(err, service.ErrDuplicateISBN),
		errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit, offset := parsePage(c)
	genre := c.Query("genre")

	list, total, err := h.svc.GetAll(ctx, limit, offset, genre)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromBookToResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": dto.Page{Limit: limit, Offset: offset, Total: total},
	})
}

func (h *BookHandler) Overdue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit, offset := parsePage(c)

	list, total, err := h.lending.Overdue(ctx, limit, offset)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromBookToResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": dto.Page{Limit: limit, Offset: offset, Total: total},
	})
}

func (h *BookHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, c.Param("book_id"))
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBookToResponse(*b))
}

func (h *BookHandler) History(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	history, err := h.lending.History(ctx, c.Param("book_id"))
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	resp := dto.BookHistoryResponse{
		Book:    dto.FromBookToResponse(history.Book),
		History: make([]dto.HistoryEntryResponse, 0, len(history.Entries)),
	}
	for _, e := range history.Entries {
		entry := dto.HistoryEntryResponse{
			Member:       dto.MemberRef{ID: e.Record.MemberID},
			BorrowedDate: e.Record.BorrowedDate,
			ReturnedDate: e.Record.ReturnedDate,
		}
		if e.Member != nil {
			entry.Member.Name = e.Member.FullName()
			entry.Member.Email = e.Member.Email
		}
		resp.History = append(resp.History, entry)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookHandler) Create(c *gin.Context) {
	var in dto.CreateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := in.ToModel()
	if err := h.svc.Create(ctx, &book); err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromBookToResponse(book))
}

func (h *BookHandler) Update(c *gin.Context) {
	var in dto.UpdateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, c.Param("book_id"), in.ApplyTo)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromBookToResponse(*updated))
}

func (h *BookHandler) Archive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Archive(ctx, c.Param("book_id")); err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) Borrow(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.lending.Borrow(ctx, c.Param("book_id"), c.Param("member_id"))
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBookToResponse(*b))
}

func (h *BookHandler) Return(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.lending.Return(ctx, c.Param("book_id"))
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBookToResponse(*b))
}
