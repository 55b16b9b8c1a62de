package letters

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/jobdesc"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/usage"
)

// Handler wires HTTP handlers to the letter service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches letter routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/letters", h.create)
	rg.GET("/letters", h.list)
	rg.GET("/letters/:id", h.get)
	rg.GET("/letters/:id/download", h.download)
}

type createRequest struct {
	ResumeID       string  `json:"resumeId"`
	JobDescription string  `json:"jobDescription"`
	JobURL         string  `json:"jobUrl"`
	SenderName     string  `json:"senderName"`
	SignatureID    string  `json:"signatureId"`
	Temperature    float32 `json:"temperature"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}
	if req.JobDescription == "" && req.JobURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription or jobUrl is required", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	letter, err := h.Svc.Create(ctx, userID, CreateInput{
		ResumeID:       req.ResumeID,
		JobDescription: req.JobDescription,
		JobURL:         req.JobURL,
		SenderName:     req.SenderName,
		SignatureID:    req.SignatureID,
		Temperature:    req.Temperature,
	})
	if err != nil {
		switch {
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "Monthly letter limit reached", nil)
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, jobdesc.ErrInvalidURL):
			respond.Error(c, http.StatusBadRequest, "invalid_url", "job url is not a valid http(s) address", nil)
		case errors.Is(err, jobdesc.ErrUnreachable):
			respond.Error(c, http.StatusBadGateway, "fetch_failed", "unable to fetch job posting", nil)
		case errors.Is(err, jobdesc.ErrEmptyDescription):
			respond.Error(c, http.StatusUnprocessableEntity, "empty_description", "job posting had no usable text", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create letter", nil)
		}
		return
	}

	c.Set("letterId", letter.ID)
	respond.JSON(c, http.StatusAccepted, toResponse(letter))
}

func (h *Handler) list(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}

	userID := middleware.UserIDFromContext(c)
	limit, offset := pagination(c)

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list letters", nil)
		}
		return
	}

	resp := make([]gin.H, 0, len(list))
	for _, letter := range list {
		resp = append(resp, toResponse(letter))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	letterID := c.Param("id")
	if letterID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "letter id is required", nil)
		return
	}

	letter, err := h.Svc.Get(c.Request.Context(), userID, letterID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "letter not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch letter", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(letter))
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	letterID := c.Param("id")
	if letterID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "letter id is required", nil)
		return
	}

	reader, err := h.Svc.OpenPDF(c.Request.Context(), userID, letterID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "letter not found", nil)
		case errors.Is(err, ErrNotCompleted):
			respond.Error(c, http.StatusConflict, "letter_pending", "letter not completed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load letter", nil)
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\"cover_letter.pdf\"")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func toResponse(letter Letter) gin.H {
	out := gin.H{
		"letterId":    letter.ID,
		"resumeId":    letter.ResumeID,
		"status":      letter.Status,
		"provider":    letter.Provider,
		"model":       letter.Model,
		"temperature": letter.Temperature,
		"createdAt":   letter.CreatedAt,
	}
	if letter.JobURL != "" {
		out["jobUrl"] = letter.JobURL
	}
	if letter.SenderName != "" {
		out["senderName"] = letter.SenderName
	}
	if letter.Status == StatusCompleted {
		out["letterText"] = letter.LetterText
		out["downloadUrl"] = "/api/v1/letters/" + letter.ID + "/download"
	}
	if letter.Status == StatusFailed {
		out["errorCode"] = letter.ErrorCode
	}
	if letter.CompletedAt != nil {
		out["completedAt"] = letter.CompletedAt
	}
	return out
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
