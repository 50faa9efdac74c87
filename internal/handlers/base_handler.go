package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"userpanel/pkg/apperrors"
)

// BaseHandler - общие хелперы для всех хендлеров
type BaseHandler struct{}

// BindForm привязывает multipart/form-data или x-www-form-urlencoded к структуре.
// Валидация полей выполняется в сервисном слое
func (h *BaseHandler) BindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request data: "+err.Error()))
		return false
	}
	return true
}

// BindJSON привязывает JSON-тело к структуре
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// HandleServiceError отправляет ошибку сервиса клиенту
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// ParseParamUint читает числовой параметр пути
func (h *BaseHandler) ParseParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(value), true
}

// ParsePage читает номер страницы из query (?page=N), по умолчанию 1
func (h *BaseHandler) ParsePage(c *gin.Context) int {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
