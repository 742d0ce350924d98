package faqs

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"faq-backend/internal/extract"
	"faq-backend/internal/shared/server/respond"
	"faq-backend/internal/shared/telemetry"
)

const maxUploadSize = 20 << 20 // 20MB

// Handler wires HTTP endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches FAQ routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/process-faq/:record_id", h.processByID)
	rg.POST("/process-faq", h.submit)
	rg.POST("/generate-FAQ/:user_id", h.generate)
}

func (h *Handler) processByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid record id", nil)
		return
	}
	c.Set("recordId", id)

	result, err := h.Svc.ProcessByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{"questions_and_answers": result})
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	userID, err := strconv.ParseInt(c.PostForm("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id is required", nil)
		return
	}

	in, file, err := h.bindSubmitForm(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	if file != nil {
		defer file.Close()
	}
	in.UserID = userID

	record, err := h.Svc.Submit(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set("recordId", record.ID)

	respond.OK(c, gin.H{
		"record_id":             record.ID,
		"questions_and_answers": record.Result,
	})
}

func (h *Handler) generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid user id", nil)
		return
	}

	in, file, err := h.bindSubmitForm(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	if file != nil {
		defer file.Close()
	}
	in.UserID = userID

	result, err := h.Svc.Generate(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{"questions_and_answers": result})
}

// bindSubmitForm reads the shared multipart fields. The returned file must be
// closed by the caller when non-nil.
func (h *Handler) bindSubmitForm(c *gin.Context) (SubmitInput, multipart.File, error) {
	in := SubmitInput{
		URL:             c.PostForm("url"),
		WrittenData:     c.PostForm("written_data"),
		CustomQuestions: c.PostForm("custom_questions"),
		QuestionCount:   DefaultQuestionCount,
	}
	if raw := c.PostForm("questions_number"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			in.QuestionCount = parsed
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		return in, nil, errors.New("unable to read file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return in, nil, errors.New("unable to read file")
	}
	in.FileName = fileHeader.Filename
	in.File = file
	return in, file, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "no data found for this id", nil)
	case errors.Is(err, ErrInputRequired):
		respond.Error(c, http.StatusBadRequest, "input_required", ErrInputRequired.Error(), nil)
	case errors.Is(err, ErrEmptyContent):
		respond.Error(c, http.StatusBadRequest, "empty_content", ErrEmptyContent.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type", err.Error(), nil)
	default:
		telemetry.Error("faq.process", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process faq request", err.Error())
	}
}
