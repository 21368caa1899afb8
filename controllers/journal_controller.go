package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"journalgrader/internal/assets"
	"journalgrader/internal/logger"
	"journalgrader/models"
	"journalgrader/services"
)

// JournalGrader grades one submission.
type JournalGrader interface {
	Grade(ctx context.Context, sub models.Submission) (*models.GradedSubmission, error)
}

// AssetProvider serves the roster and the banner image.
type AssetProvider interface {
	ListNames(ctx context.Context) ([]string, error)
	BannerImage(ctx context.Context) (assets.Image, error)
}

type JournalController struct {
	grader JournalGrader
	assets AssetProvider
	title  string
	log    *logger.Logger
}

func NewJournalController(grader JournalGrader, provider AssetProvider, title string, log *logger.Logger) *JournalController {
	return &JournalController{
		grader: grader,
		assets: provider,
		title:  title,
		log:    log.With("controller", "JournalController"),
	}
}

type CritiqueRequest struct {
	Prompt      string            `json:"prompt"`
	StudentName string            `json:"student_name"`
	Mode        string            `json:"mode"`
	Sections    map[string]string `json:"sections"`
}

type ModeResponse struct {
	Mode     models.JournalEntryMode `json:"mode"`
	Label    string                  `json:"label"`
	Sections []models.SectionKey     `json:"sections"`
}

type modeOption struct {
	Value    models.JournalEntryMode
	Label    string
	Selected bool
}

type formField struct {
	Key   models.SectionKey
	Label string
	Value string
}

type journalPage struct {
	Title       string
	HasBanner   bool
	Modes       []modeOption
	Mode        models.JournalEntryMode
	Prompt      string
	StudentName string
	Roster      []string
	Fields      []formField
	Missing     []string
	Error       string
	Result      *models.GradedSubmission
}

// ShowForm renders the empty form for ?mode= (default: main claim only).
func (jc *JournalController) ShowForm(c *gin.Context) {
	mode, err := models.ParseMode(c.DefaultQuery("mode", string(models.ModeClaimOnly)))
	if err != nil {
		mode = models.ModeClaimOnly
	}
	page := jc.newPage(c.Request.Context(), mode)
	page.Fields = fieldsFor(mode, nil)
	c.HTML(http.StatusOK, "journal.html", page)
}

// SubmitForm grades a form post and re-renders the page with the result.
// An unknown mode is reported with the other missing fields, never graded.
func (jc *JournalController) SubmitForm(c *gin.Context) {
	mode, modeErr := models.ParseMode(c.PostForm("mode"))
	posted := models.SubmittedSections{}
	for _, key := range models.SectionOrder {
		if v, ok := c.GetPostForm(string(key)); ok {
			posted[key] = v
		}
	}
	sections := models.SubmittedSections{}
	for _, key := range mode.Sections() {
		sections[key] = posted[key]
	}
	sub := models.Submission{
		Prompt:      c.PostForm("prompt"),
		StudentName: c.PostForm("student_name"),
		Mode:        mode,
		Sections:    sections,
	}

	display := mode
	if modeErr != nil {
		display = models.ModeClaimOnly
	}
	page := jc.newPage(c.Request.Context(), display)
	page.Prompt = sub.Prompt
	page.StudentName = sub.StudentName
	page.Fields = fieldsFor(display, posted)

	if modeErr != nil {
		jc.renderError(c, page, services.ValidateSubmission(sub))
		return
	}
	graded, err := jc.grader.Grade(c.Request.Context(), sub)
	if err != nil {
		jc.renderError(c, page, err)
		return
	}
	page.Result = graded
	c.HTML(http.StatusOK, "journal.html", page)
}

func (jc *JournalController) renderError(c *gin.Context, page journalPage, err error) {
	status, body := jc.errorResponse(err)
	if missing, ok := body["missing"].([]string); ok {
		page.Missing = missing
	} else {
		page.Error, _ = body["error"].(string)
	}
	c.HTML(status, "journal.html", page)
}

// Critique is the JSON form of SubmitForm.
func (jc *JournalController) Critique(c *gin.Context) {
	var req CritiqueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	mode, modeErr := models.ParseMode(req.Mode)
	sections := make(models.SubmittedSections, len(req.Sections))
	for k, v := range req.Sections {
		sections[models.SectionKey(k)] = v
	}
	sub := models.Submission{
		Prompt:      req.Prompt,
		StudentName: req.StudentName,
		Mode:        mode,
		Sections:    sections,
	}
	if modeErr != nil {
		c.JSON(jc.errorResponse(services.ValidateSubmission(sub)))
		return
	}

	graded, err := jc.grader.Grade(c.Request.Context(), sub)
	if err != nil {
		c.JSON(jc.errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, graded)
}

func (jc *JournalController) ListModes(c *gin.Context) {
	modes := models.Modes()
	out := make([]ModeResponse, 0, len(modes))
	for _, m := range modes {
		out = append(out, ModeResponse{Mode: m, Label: m.Label(), Sections: m.Sections()})
	}
	c.JSON(http.StatusOK, out)
}

func (jc *JournalController) ListRoster(c *gin.Context) {
	names, err := jc.assets.ListNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Roster unavailable"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

func (jc *JournalController) Banner(c *gin.Context) {
	img, err := jc.assets.BannerImage(c.Request.Context())
	if err != nil {
		if errors.Is(err, assets.ErrNoBanner) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (jc *JournalController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (jc *JournalController) errorResponse(err error) (int, gin.H) {
	var vErr *services.ValidationError
	var genErr *services.GenerationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, gin.H{"error": "Missing required fields", "missing": vErr.Missing}
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, gin.H{"error": "Too many submissions, please try again later"}
	case errors.As(err, &genErr):
		return http.StatusBadGateway, gin.H{"error": "Failed to generate critique", "section": genErr.Section}
	default:
		jc.log.Error("Unexpected grading error", "error", err)
		return http.StatusInternalServerError, gin.H{"error": "Failed to grade submission"}
	}
}

func (jc *JournalController) newPage(ctx context.Context, mode models.JournalEntryMode) journalPage {
	page := journalPage{Title: jc.title, Mode: mode}
	for _, m := range models.Modes() {
		page.Modes = append(page.Modes, modeOption{Value: m, Label: m.Label(), Selected: m == mode})
	}
	if names, err := jc.assets.ListNames(ctx); err == nil {
		page.Roster = names
	}
	if _, err := jc.assets.BannerImage(ctx); err == nil {
		page.HasBanner = true
	}
	return page
}

func fieldsFor(mode models.JournalEntryMode, values models.SubmittedSections) []formField {
	keys := mode.Sections()
	fields := make([]formField, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, formField{Key: key, Label: key.Label(), Value: values[key]})
	}
	return fields
}
