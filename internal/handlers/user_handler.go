package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userpanel/internal/services"
	"userpanel/internal/services/dto"
	"userpanel/pkg/apperrors"
)

// UserHandler - HTTP-интерфейс управления пользователями
type UserHandler struct {
	BaseHandler
	userService services.UserService
}

// NewUserHandler создает хендлер пользователей
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes регистрирует маршруты пользователей
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/trashed", h.ListTrashed)
		users.POST("", h.Store)
		users.GET("/:id", h.Show)
		users.PUT("/:id", h.Update)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id/destroy", h.Destroy)
		users.PATCH("/:id/restore", h.Restore)
		users.DELETE("/:id/delete", h.Delete)

		batch := users.Group("/batch")
		{
			batch.POST("/destroy", h.BatchDestroy)
			batch.POST("/restore", h.BatchRestore)
			batch.POST("/delete", h.BatchDelete)
		}
	}
}

// List возвращает страницу активных пользователей
func (h *UserHandler) List(c *gin.Context) {
	page := h.ParsePage(c)

	resp, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListTrashed возвращает страницу мягко удаленных пользователей
func (h *UserHandler) ListTrashed(c *gin.Context) {
	page := h.ParsePage(c)

	resp, err := h.userService.ListTrashed(c.Request.Context(), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Show возвращает пользователя с деталями
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	resp, err := h.userService.Find(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Store создает пользователя
func (h *UserHandler) Store(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindForm(c, &req) {
		return
	}
	if file, err := c.FormFile("photo"); err == nil {
		req.Photo = file
	}

	user, err := h.userService.Store(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
		"notice": dto.Notice{
			Title:   "User Created",
			Message: "The user has been saved",
			Success: true,
		},
	})
}

// Update обновляет пользователя
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindForm(c, &req) {
		return
	}
	if file, err := c.FormFile("photo"); err == nil {
		req.Photo = file
	}

	user, changed, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"changed": changed,
		"notice": dto.Notice{
			Title:   "User Updated",
			Message: "The user has been updated",
			Success: true,
		},
	})
}

// Destroy мягко удаляет пользователя
func (h *UserHandler) Destroy(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Destroy(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notice": dto.Notice{
			Title:   "User Deleted",
			Message: "The user has been moved to trash",
			Success: true,
		},
	})
}

// Restore восстанавливает мягко удаленного пользователя
func (h *UserHandler) Restore(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Restore(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notice": dto.Notice{
			Title:   "User Restored",
			Message: "The user has been restored",
			Success: true,
		},
	})
}

// Delete окончательно удаляет пользователя
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Purge(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notice": dto.Notice{
			Title:   "User Deleted Permanently",
			Message: "The user has been permanently deleted",
			Success: true,
		},
	})
}

// BatchDestroy мягко удаляет пользователей из списка.
// Несуществующие ID молча пропускаются
func (h *UserHandler) BatchDestroy(c *gin.Context) {
	ids, ok := h.bindBatch(c)
	if !ok {
		return
	}

	affected, err := h.userService.BatchDestroy(c.Request.Context(), ids)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BatchResult{
		Affected: affected,
		Notice: dto.Notice{
			Title:   "User Deleted",
			Message: "The selected users have been moved to trash",
			Success: true,
		},
	})
}

// BatchRestore восстанавливает пользователей из списка
func (h *UserHandler) BatchRestore(c *gin.Context) {
	ids, ok := h.bindBatch(c)
	if !ok {
		return
	}

	affected, err := h.userService.BatchRestore(c.Request.Context(), ids)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BatchResult{
		Affected: affected,
		Notice: dto.Notice{
			Title:   "User Restored",
			Message: "The selected users have been restored",
			Success: true,
		},
	})
}

// BatchDelete окончательно удаляет пользователей из списка
func (h *UserHandler) BatchDelete(c *gin.Context) {
	ids, ok := h.bindBatch(c)
	if !ok {
		return
	}

	affected, err := h.userService.BatchPurge(c.Request.Context(), ids)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BatchResult{
		Affected: affected,
		Notice: dto.Notice{
			Title:   "User Deleted Permanently",
			Message: "The selected users have been permanently deleted",
			Success: true,
		},
	})
}

func (h *UserHandler) bindBatch(c *gin.Context) ([]uint, bool) {
	var req dto.BatchUserRequest
	if !h.BindJSON(c, &req) {
		return nil, false
	}
	if len(req.IDs) == 0 {
		h.HandleServiceError(c, apperrors.ValidationError(map[string]string{
			"ids": "This field is required",
		}))
		return nil, false
	}
	return req.IDs, true
}
