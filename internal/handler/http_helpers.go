package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sitepages/internal/logger"
	"github.com/sitepages/internal/middleware"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondInternalError 记录真实错误，只向客户端返回通用提示。
func respondInternalError(c *gin.Context, err error, message string) {
	logRequestError(c, err, message)
	respondError(c, http.StatusInternalServerError, message)
}

func logRequestError(c *gin.Context, err error, message string) {
	logger.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}).Errorf("%s: %v", message, err)
	_ = c.Error(err)
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}
