package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepages/internal/metrics"
	"github.com/sitepages/internal/service"
)

const (
	msgPageNotFound     = "Page not found"
	msgPageFieldsNeeded = "Title and slug are required"
	msgPageSlugTaken    = "A page with this slug already exists"
	msgInvalidPageID    = "Invalid page id"
)

// createPageRequest 与 updatePageRequest 使用指针区分“未提供”与“空字符串”。
type createPageRequest struct {
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Content         *string `json:"content"`
	MetaDescription *string `json:"metaDescription"`
}

type updatePageRequest struct {
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Content         *string `json:"content"`
	MetaDescription *string `json:"metaDescription"`
	IsPublished     *bool   `json:"isPublished"`
}

type pageContentRequest struct {
	Content *string `json:"content"`
}

func (r createPageRequest) toInput() service.PageInput {
	return service.PageInput{
		Title:           r.Title,
		Slug:            r.Slug,
		Content:         stringOrEmpty(r.Content),
		MetaDescription: stringOrEmpty(r.MetaDescription),
		IsPublished:     true,
	}
}

func (r updatePageRequest) toInput() service.PageInput {
	published := true
	if r.IsPublished != nil {
		published = *r.IsPublished
	}
	return service.PageInput{
		Title:           r.Title,
		Slug:            r.Slug,
		Content:         stringOrEmpty(r.Content),
		MetaDescription: stringOrEmpty(r.MetaDescription),
		IsPublished:     published,
	}
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// ListPages 返回全部页面，按创建时间倒序。
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch pages")
		return
	}
	c.JSON(http.StatusOK, pages)
}

// GetPage 按 ID 返回单个页面。
func (a *API) GetPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPageID)
		return
	}

	page, err := a.pages.GetByID(c.Request.Context(), id)
	if err != nil {
		a.respondPageError(c, err, "Failed to fetch page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPageBySlug 按 slug 精确匹配（区分大小写）返回页面。
func (a *API) GetPageBySlug(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondPageError(c, err, "Failed to fetch page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreatePage 创建页面，新页面默认发布。
func (a *API) CreatePage(c *gin.Context) {
	var payload createPageRequest
	if !bindJSON(c, &payload, msgPageFieldsNeeded) {
		return
	}

	page, err := a.pages.Create(c.Request.Context(), payload.toInput())
	recordMutation("create", err)
	if err != nil {
		a.respondPageError(c, err, "Failed to create page")
		return
	}
	c.JSON(http.StatusCreated, page)
}

// UpdatePage 整体替换页面的可变字段，isPublished 缺省视为 true。
func (a *API) UpdatePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPageID)
		return
	}

	var payload updatePageRequest
	if !bindJSON(c, &payload, msgPageFieldsNeeded) {
		return
	}

	page, err := a.pages.Update(c.Request.Context(), id, payload.toInput())
	recordMutation("update", err)
	if err != nil {
		a.respondPageError(c, err, "Failed to update page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdatePageContent 只更新页面内容；content 键必须存在，可以是空字符串。
func (a *API) UpdatePageContent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPageID)
		return
	}

	var payload pageContentRequest
	if !bindJSON(c, &payload, "Content is required") {
		return
	}
	if payload.Content == nil {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	page, err := a.pages.UpdateContent(c.Request.Context(), id, *payload.Content)
	recordMutation("update_content", err)
	if err != nil {
		a.respondPageError(c, err, "Failed to update page content")
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeletePage 硬删除页面。
func (a *API) DeletePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPageID)
		return
	}

	_, err = a.pages.Delete(c.Request.Context(), id)
	recordMutation("delete", err)
	if err != nil {
		a.respondPageError(c, err, "Failed to delete page")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Page deleted successfully"})
}

func (a *API) respondPageError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPageTitleRequired), errors.Is(err, service.ErrPageSlugRequired):
		respondError(c, http.StatusBadRequest, msgPageFieldsNeeded)
	case errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, msgPageNotFound)
	case errors.Is(err, service.ErrPageSlugTaken):
		respondError(c, http.StatusConflict, msgPageSlugTaken)
	default:
		respondInternalError(c, err, fallback)
	}
}

func recordMutation(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPageNotFound):
		outcome = "not_found"
	case errors.Is(err, service.ErrPageSlugTaken):
		outcome = "conflict"
	case errors.Is(err, service.ErrPageTitleRequired), errors.Is(err, service.ErrPageSlugRequired):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.PageMutations.WithLabelValues(operation, outcome).Inc()
}
