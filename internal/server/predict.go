package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aviscan-ph/aviscan/internal/engine"
	"github.com/aviscan-ph/aviscan/internal/engine/preprocess"
	"github.com/aviscan-ph/aviscan/internal/media"
	"github.com/aviscan-ph/aviscan/internal/store"
)

// maxUploadBytes caps the multipart image size.
const maxUploadBytes = 10 << 20

// predictResponse is the single stable response contract for POST /predict.
type predictResponse struct {
	Prediction    string             `json:"prediction"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	ImageURL      string             `json:"image_url"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Municipality  string             `json:"municipality,omitempty"`
	Barangay      string             `json:"barangay,omitempty"`
}

// predict handles POST /predict: multipart image + geolocation in, combined
// prediction + persisted scan record out. Steps run strictly in order
// (classify, upload, save) and any failure fails the whole request; a 200
// response means every side effect has confirmed success.
func (s *Server) predict(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing required form field 'file'"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "image exceeds 10 MiB limit"})
		return
	}

	lat, err := requiredFloat(c, "latitude")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	lon, err := requiredFloat(c, "longitude")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "failed to read uploaded file"})
		return
	}
	if len(raw) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "image exceeds 10 MiB limit"})
		return
	}

	// One deadline covers classify + upload + save.
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	pred, err := s.classifier.Classify(ctx, raw)
	if err != nil {
		s.failPredict(ctx, c, "classify", err)
		return
	}

	name := media.UniqueName(header.Filename)
	imageURL, err := s.media.Upload(ctx, raw, name, media.ContentTypeFor(name))
	if err != nil {
		// Nothing persisted yet; the scan is simply not recorded.
		s.failPredict(ctx, c, "upload", err)
		return
	}

	rec, err := s.scans.Save(ctx, store.SaveParams{
		UserID:       c.PostForm("user_id"),
		ImageURL:     imageURL,
		Prediction:   pred.Label,
		Confidence:   pred.Confidence,
		Latitude:     lat,
		Longitude:    lon,
		Municipality: c.PostForm("municipality"),
		Barangay:     c.PostForm("barangay"),
	})
	if err != nil {
		// The image is already uploaded: an accepted inconsistency window.
		// It must be reported, never silently discarded.
		slog.Error("scan record save failed after media upload; orphaned image",
			"image_url", imageURL, "error", err)
		s.failPredict(ctx, c, "save", err)
		return
	}

	predictionsTotal.WithLabelValues(pred.Label).Inc()
	scansSavedTotal.Inc()
	slog.Info("scan recorded", "id", rec.ID, "prediction", pred.Label,
		"confidence", pred.Confidence, "image_url", imageURL)

	c.JSON(http.StatusOK, predictResponse{
		Prediction:    pred.Label,
		Confidence:    pred.Confidence,
		Probabilities: pred.Probabilities,
		ImageURL:      imageURL,
		Latitude:      lat,
		Longitude:     lon,
		Municipality:  c.PostForm("municipality"),
		Barangay:      c.PostForm("barangay"),
	})
}

// failPredict maps a pipeline error to an HTTP status and structured body.
func (s *Server) failPredict(ctx context.Context, c *gin.Context, stage string, err error) {
	requestFailuresTotal.WithLabelValues(stage).Inc()

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"detail": "request timed out"})
	case errors.Is(err, preprocess.ErrDecode), errors.Is(err, preprocess.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid image: supported formats are JPEG and PNG"})
	case errors.Is(err, engine.ErrInference):
		slog.Error("inference failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "prediction failed"})
	case errors.Is(err, media.ErrUploadRejected), errors.Is(err, media.ErrUnavailable):
		slog.Error("media upload failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "image upload failed"})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to save scan record"})
	default:
		slog.Error("predict failed", "stage", stage, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "prediction failed"})
	}
}

func requiredFloat(c *gin.Context, field string) (float64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, errors.New("missing required form field '" + field + "'")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("form field '" + field + "' must be a number")
	}
	return v, nil
}
