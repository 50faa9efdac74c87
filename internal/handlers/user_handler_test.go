package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"userpanel/internal/config"
	"userpanel/internal/models"
	"userpanel/internal/repositories"
	"userpanel/internal/services"
	"userpanel/internal/storage"
	"userpanel/internal/validator"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Detail{}, &models.Upload{}))

	st, err := storage.NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	uploadCfg := config.UploadConfig{
		MaxSize:      2 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg"},
		ImageQuality: 85,
	}

	userRepo := repositories.NewUserRepository(db)
	detailRepo := repositories.NewDetailRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)

	photoService := services.NewPhotoService(st, uploadRepo, uploadCfg, "local")
	userService := services.NewUserService(userRepo, detailRepo, photoService, validator.New())

	router := gin.New()
	api := router.Group("/api/v1")
	NewUserHandler(userService).RegisterRoutes(api)

	return router
}

func userForm(n int) url.Values {
	return url.Values{
		"prefixname":            {"Mr"},
		"firstname":             {"John"},
		"middlename":            {"Doe"},
		"lastname":              {"Smith"},
		"username":              {fmt.Sprintf("jsmith%d", n)},
		"email":                 {fmt.Sprintf("jsmith%d@example.com", n)},
		"password":              {"secret-password"},
		"password_confirmation": {"secret-password"},
	}
}

func postForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, router *gin.Engine, n int) uint {
	t.Helper()

	w := postForm(t, router, "/api/v1/users", userForm(n))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID
}

func TestUserHandler_StoreReturnsNotice(t *testing.T) {
	router := setupRouter(t)

	w := postForm(t, router, "/api/v1/users", userForm(1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			Fullname string `json:"fullname"`
			Gender   string `json:"gender"`
		} `json:"user"`
		Notice struct {
			Title   string `json:"title"`
			Success bool   `json:"success"`
		} `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "John D. Smith", resp.User.Fullname)
	assert.Equal(t, "male", resp.User.Gender)
	assert.Equal(t, "User Created", resp.Notice.Title)
	assert.True(t, resp.Notice.Success)
}

func TestUserHandler_StoreMultipartWithPhoto(t *testing.T) {
	router := setupRouter(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key, values := range userForm(1) {
		require.NoError(t, mw.WriteField(key, values[0]))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestUserHandler_StoreValidationError(t *testing.T) {
	router := setupRouter(t)

	form := userForm(1)
	form.Set("email", "not-an-email")
	form.Set("password_confirmation", "different")

	w := postForm(t, router, "/api/v1/users", form)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "email")
	assert.Contains(t, resp.Error.Details, "password")
}

func TestUserHandler_ListAndShow(t *testing.T) {
	router := setupRouter(t)

	id := createUser(t, router, 1)
	createUser(t, router, 2)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Users []json.RawMessage `json:"users"`
		Total int64             `json:"total"`
		Page  int               `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(2), list.Total)
	assert.Len(t, list.Users, 2)
	assert.Equal(t, 1, list.Page)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_ShowNotFound(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/9999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_InvalidIDParam(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_UpdateViaPut(t *testing.T) {
	router := setupRouter(t)

	id := createUser(t, router, 1)

	form := userForm(1)
	form.Set("firstname", "Jane")
	form.Set("prefixname", "Mrs")
	form.Del("password")
	form.Del("password_confirmation")

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", id), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User struct {
			Firstname string `json:"firstname"`
			Gender    string `json:"gender"`
		} `json:"user"`
		Changed bool `json:"changed"`
		Notice  struct {
			Title string `json:"title"`
		} `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Jane", resp.User.Firstname)
	assert.Equal(t, "female", resp.User.Gender)
	assert.True(t, resp.Changed)
	assert.Equal(t, "User Updated", resp.Notice.Title)
}

func TestUserHandler_LifecycleRoutes(t *testing.T) {
	router := setupRouter(t)

	id := createUser(t, router, 1)

	// Мягкое удаление
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/destroy", id), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Пользователь в корзине
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/trashed", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var trashed struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trashed))
	assert.Equal(t, int64(1), trashed.Total)

	// Восстановление
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/restore", id), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Окончательное удаление
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/delete", id), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_BatchDestroy(t *testing.T) {
	router := setupRouter(t)

	ids := []uint{createUser(t, router, 1), createUser(t, router, 2), createUser(t, router, 3)}

	payload, err := json.Marshal(map[string]interface{}{"ids": append(ids, 9999)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/batch/destroy", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Affected int64 `json:"affected"`
		Notice   struct {
			Title string `json:"title"`
		} `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Affected)
	assert.Equal(t, "User Deleted", resp.Notice.Title)
}

func TestUserHandler_BatchRequiresIDs(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/batch/restore", strings.NewReader(`{"ids": []}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
