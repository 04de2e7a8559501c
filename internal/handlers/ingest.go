package handlers

import (
	"io"
	"net/http"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/Vishal4742/sonica/internal/ingestion"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/gin-gonic/gin"
)

// songUploadRequest is the multipart form shape add_song accepts.
type songUploadRequest struct {
	Title    string `form:"title" binding:"required"`
	Artist   string `form:"artist" binding:"required"`
	Album    string `form:"album"`
	Genre    string `form:"genre"`
	Language string `form:"language"`
	Duration float64 `form:"duration"`
}

// AddSong handles POST /api/v1/songs: single-song ingestion. Accepts a
// multipart form with song metadata fields and an "audio" file part.
func (h *Handlers) AddSong(c *gin.Context) {
	var req songUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		writeAPIError(c, apierror.InvalidAudioFormat("", supportedExtensionList()))
		return
	}

	if apiErr := h.validateAudioUpload(fileHeader.Filename, fileHeader.Size); apiErr != nil {
		writeAPIError(c, apiErr)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeAPIError(c, apierror.AudioProcessingFailure("failed to open upload"))
		return
	}
	defer file.Close()

	audioBytes, err := io.ReadAll(file)
	if err != nil {
		writeAPIError(c, apierror.AudioProcessingFailure("failed to read upload"))
		return
	}

	input := ingestion.SongInput{
		Song: models.SongRecord{
			Title:    req.Title,
			Artist:   req.Artist,
			Album:    req.Album,
			Genre:    req.Genre,
			Language: req.Language,
			Duration: req.Duration,
		},
		AudioBytes:       audioBytes,
		OriginalFilename: fileHeader.Filename,
	}

	songID, err := h.kernel.Ingester().AddSong(c.Request.Context(), input)
	if err != nil {
		writeAPIError(c, apierror.VectorBackendError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": songID})
}
