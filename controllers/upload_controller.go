package controllers

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxUploadSize  = 5 << 20 // 5MB
	maxUploadFiles = 5
)

// UploadController writes uploaded images to local disk; files are served
// back under /uploads.
type UploadController struct {
	dir string
}

func NewUploadController(dir string) *UploadController {
	return &UploadController{dir: dir}
}

func validImage(file *multipart.FileHeader) bool {
	return strings.HasPrefix(file.Header.Get("Content-Type"), "image/") &&
		file.Size <= maxUploadSize
}

func (u *UploadController) save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(u.dir, filename)); err != nil {
		return "", err
	}
	return "/uploads/" + filename, nil
}

func (u *UploadController) Single(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	if !validImage(file) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only image files up to 5MB are allowed"})
		return
	}

	url, err := u.save(c, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error uploading file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"url":      url,
		"filename": filepath.Base(url),
	})
}

func (u *UploadController) Multiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded"})
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Too many files"})
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		if !validImage(file) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Only image files up to 5MB are allowed"})
			return
		}
		url, err := u.save(c, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error uploading files"})
			return
		}
		urls = append(urls, url)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Files uploaded successfully",
		"urls":    urls,
		"count":   len(urls),
	})
}
