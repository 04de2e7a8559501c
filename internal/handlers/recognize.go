package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/middleware"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recognize handles POST /api/v1/recognize: a multipart audio upload is
// fingerprinted and matched against the catalogue. Authentication is
// optional — userID is attached to the log entry when present, purely
// for history attribution, and never gates the recognition itself.
func (h *Handlers) Recognize(c *gin.Context) {
	h.doRecognize(c, h.kernel.Recognizer().Recognize)
}

// RecognizeStreaming handles POST /api/v1/recognize/stream, identical to
// Recognize except the orchestrator only consumes the first chunk of
// the upload.
func (h *Handlers) RecognizeStreaming(c *gin.Context) {
	h.doRecognize(c, h.kernel.Recognizer().RecognizeStreaming)
}

func (h *Handlers) doRecognize(c *gin.Context, recognize func(ctx context.Context, audioBytes []byte, language, userID, requestID string) (*models.RecognitionResult, error)) {
	start := time.Now()

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

	language := c.PostForm("language")
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var userID string
	if uid, exists := c.Get("user_id"); exists {
		if s, ok := uid.(string); ok {
			userID = s
		}
	}

	result, err := recognize(c.Request.Context(), audioBytes, language, userID, requestID)
	if err != nil {
		middleware.RecordRecognition("error", time.Since(start))
		logger.Log.Warn("recognition failed", zap.String("request_id", requestID), zap.Error(err))
		writeAPIError(c, err)
		return
	}

	if result == nil {
		middleware.RecordRecognition("no_match", time.Since(start))
		writeAPIError(c, apierror.RecognitionFailed(""))
		return
	}

	middleware.RecordRecognition("match", time.Since(start))
	middleware.RecordRecognitionConfidence(result.Confidence)
	c.JSON(http.StatusOK, result)
}
