package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepages/internal/service"
)

type pageListItem struct {
	Title   string
	Slug    string
	Summary string
}

// ShowHome 渲染首页，只列出已发布页面。
func (a *API) ShowHome(c *gin.Context) {
	pages, err := a.pages.ListPublished(c.Request.Context())
	if err != nil {
		logRequestError(c, err, "render home")
		a.renderHTML(c, http.StatusInternalServerError, "error.html", nil)
		return
	}

	items := make([]pageListItem, 0, len(pages))
	for i := range pages {
		items = append(items, pageListItem{
			Title:   pages[i].Title,
			Slug:    pages[i].Slug,
			Summary: service.MetaDescription(&pages[i]),
		})
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{"pages": items})
}

// ShowPage 渲染公开页面。草稿与不存在的 slug 一样返回 404。
func (a *API) ShowPage(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if !errors.Is(err, service.ErrPageNotFound) {
			logRequestError(c, err, "render page")
			a.renderHTML(c, http.StatusInternalServerError, "error.html", nil)
			return
		}
		a.renderHTML(c, http.StatusNotFound, "not_found.html", nil)
		return
	}
	if !page.IsPublished {
		a.renderHTML(c, http.StatusNotFound, "not_found.html", nil)
		return
	}

	a.renderHTML(c, http.StatusOK, "page.html", gin.H{
		"title":       page.Title,
		"description": service.MetaDescription(page),
		// 页面内容由已登录管理员编写，按原样输出
		"content": template.HTML(page.Content),
	})
}
