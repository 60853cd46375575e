package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/models"
	"github.com/chronocapsule/chrono-capsule/services"
	"github.com/chronocapsule/chrono-capsule/utils"
)

// Tipe file yang boleh dilampirkan ke kapsul
var allowedFileExts = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	".mp4": true, ".mov": true, ".avi": true,
	".mp3": true, ".wav": true, ".pdf": true,
}

type CapsuleController struct {
	DB           *gorm.DB
	BadgeService *services.BadgeService
	UploadDir    string
}

func NewCapsuleController(db *gorm.DB, badgeService *services.BadgeService, uploadDir string) *CapsuleController {
	return &CapsuleController{
		DB:           db,
		BadgeService: badgeService,
		UploadDir:    uploadDir,
	}
}

// CreateCapsule -> kapsul baru milik user yang sedang login
func (cc *CapsuleController) CreateCapsule(c *gin.Context) {
	type request struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description" binding:"required"`
		ReleaseDate time.Time `json:"release_date" binding:"required"`
		Status      string    `json:"status"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.CapsuleStatusDraft
	}
	if status != models.CapsuleStatusDraft && status != models.CapsuleStatusLocked {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status must be draft or locked"))
		return
	}

	userID := c.GetUint("user_id")
	capsule := models.Capsule{
		OwnerID:     &userID,
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		Status:      status,
		Files:       models.StringList{},
	}

	if err := cc.DB.Create(&capsule).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Capsule %d created by user %d", capsule.ID, userID)

	// Evaluasi badge best-effort; gagal di sini tidak boleh
	// menggagalkan pembuatan kapsul
	if _, err := cc.BadgeService.EvaluateAndAward(userID); err != nil {
		utils.ErrorLogger.Printf("Error evaluating badges for user %d: %v", userID, err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Capsule created", capsule)
}

// GetAllCapsules -> semua kapsul milik user, terbaru dulu
func (cc *CapsuleController) GetAllCapsules(c *gin.Context) {
	userID := c.GetUint("user_id")

	var capsules []models.Capsule
	if err := cc.DB.
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&capsules).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All capsules", capsules)
}

// GetCapsuleByID
func (cc *CapsuleController) GetCapsuleByID(c *gin.Context) {
	capsule, ok := cc.findOwnedCapsule(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Capsule detail", capsule)
}

// UpdateCapsule -> edit kapsul yang belum released. draft dan locked
// boleh bertukar lewat edit; released tidak bisa diubah lagi.
func (cc *CapsuleController) UpdateCapsule(c *gin.Context) {
	capsule, ok := cc.findOwnedCapsule(c)
	if !ok {
		return
	}

	if capsule.IsReleased() {
		utils.RespondError(c, http.StatusConflict, errors.New("released capsules cannot be edited"))
		return
	}

	type request struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		ReleaseDate *time.Time `json:"release_date"`
		Status      *string    `json:"status"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ReleaseDate != nil {
		updates["release_date"] = *req.ReleaseDate
	}
	if req.Status != nil {
		if *req.Status != models.CapsuleStatusDraft && *req.Status != models.CapsuleStatusLocked {
			utils.RespondError(c, http.StatusBadRequest, errors.New("status must be draft or locked"))
			return
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		utils.RespondJSON(c, http.StatusOK, "Nothing to update", capsule)
		return
	}

	if err := cc.DB.Model(&capsule).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.DB.First(&capsule, capsule.ID)
	utils.RespondJSON(c, http.StatusOK, "Capsule updated", capsule)
}

// DeleteCapsule -> owner boleh menghapus kapsulnya, termasuk yang
// sudah released
func (cc *CapsuleController) DeleteCapsule(c *gin.Context) {
	capsule, ok := cc.findOwnedCapsule(c)
	if !ok {
		return
	}

	if err := cc.DB.Delete(&capsule).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Capsule deleted", gin.H{"capsule_id": capsule.ID})
}

// UploadFiles -> lampiran multipart untuk kapsul yang belum released
func (cc *CapsuleController) UploadFiles(c *gin.Context) {
	capsule, ok := cc.findOwnedCapsule(c)
	if !ok {
		return
	}

	if capsule.IsReleased() {
		utils.RespondError(c, http.StatusConflict, errors.New("released capsules cannot be edited"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no files provided"))
		return
	}

	if err := os.MkdirAll(cc.UploadDir, 0o755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	saved := make([]string, 0, len(files))
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedFileExts[ext] {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("file type %s not allowed", ext))
			return
		}

		dst := filepath.Join(cc.UploadDir, uuid.NewString()+ext)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		saved = append(saved, dst)
	}

	capsule.Files = append(capsule.Files, saved...)
	if err := cc.DB.Model(&capsule).Update("files", capsule.Files).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Uploaded %d file(s) to capsule %d", len(saved), capsule.ID)
	utils.RespondJSON(c, http.StatusOK, "Files uploaded", capsule)
}

// findOwnedCapsule mengambil kapsul dari path param dan memastikan
// miliknya user yang sedang login. Respon error sudah dikirim kalau ok=false.
func (cc *CapsuleController) findOwnedCapsule(c *gin.Context) (models.Capsule, bool) {
	idStr := c.Param("capsule_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid capsule id"))
		return models.Capsule{}, false
	}

	var capsule models.Capsule
	if err := cc.DB.First(&capsule, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("capsule not found"))
		return models.Capsule{}, false
	}

	userID := c.GetUint("user_id")
	if capsule.OwnerID == nil || *capsule.OwnerID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not the owner of this capsule"))
		return models.Capsule{}, false
	}

	return capsule, true
}
