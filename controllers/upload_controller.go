package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veloradesign/velorabackend/utils"
)

// UploadImage streams a multipart file to the media host and returns the
// asset descriptor the admin form embeds in the product payload. The
// optional productName field scopes the asset into a per-product folder.
func (a *App) UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no image file was received"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer file.Close()

		slug := utils.GenerateSlug(c.PostForm("productName"))
		asset, err := a.Media.Upload(c.Request.Context(), file, fileHeader.Filename, slug)
		if err != nil {
			a.Log.Error("media upload failed",
				zap.String("fileName", fileHeader.Filename),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Image uploaded successfully!",
			"imageUrl": asset.URL,
			"publicId": asset.PublicID,
			"fileName": asset.FileName,
		})
	}
}
