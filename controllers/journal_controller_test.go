package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journalgrader/internal/assets"
	"journalgrader/internal/logger"
	"journalgrader/models"
	"journalgrader/services"
	"journalgrader/web"
)

type stubGrader struct {
	got    []models.Submission
	result *models.GradedSubmission
	err    error
}

func (s *stubGrader) Grade(_ context.Context, sub models.Submission) (*models.GradedSubmission, error) {
	s.got = append(s.got, sub)
	if s.err != nil {
		return nil, s.err
	}
	if err := services.ValidateSubmission(sub); err != nil {
		return nil, err
	}
	return s.result, nil
}

type stubAssets struct {
	names  []string
	banner *assets.Image
}

func (s stubAssets) ListNames(context.Context) ([]string, error) { return s.names, nil }

func (s stubAssets) BannerImage(context.Context) (assets.Image, error) {
	if s.banner == nil {
		return assets.Image{}, assets.ErrNoBanner
	}
	return *s.banner, nil
}

func newTestRouter(t *testing.T, grader JournalGrader, provider AssetProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	router.SetHTMLTemplate(tmpl)

	jc := NewJournalController(grader, provider, "Journal Response Grader", logger.NewNop())
	router.GET("/", jc.ShowForm)
	router.POST("/", jc.SubmitForm)
	router.GET("/banner", jc.Banner)
	router.GET("/api/modes", jc.ListModes)
	router.GET("/api/roster", jc.ListRoster)
	router.POST("/api/critique", jc.Critique)
	return router
}

func claimOnlyResult() *models.GradedSubmission {
	return &models.GradedSubmission{
		Mode:        models.ModeClaimOnly,
		ModeLabel:   "Main Claim Only",
		StudentName: "Jane Doe",
		Rows: []models.CritiqueRow{{
			Key:      models.MainClaim,
			Label:    "main claim",
			Input:    "Ambition corrupts morality.",
			Critique: "Grade: 3\n- Be more specific.",
		}},
	}
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCritiqueAPISuccess(t *testing.T) {
	grader := &stubGrader{result: claimOnlyResult()}
	router := newTestRouter(t, grader, stubAssets{})

	w := postJSON(router, "/api/critique", CritiqueRequest{
		Prompt:      "Discuss ambition in Macbeth",
		StudentName: "Jane Doe",
		Mode:        "Main Claim Only",
		Sections:    map[string]string{"main_claim": "Ambition corrupts morality."},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.GradedSubmission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "main claim", got.Rows[0].Label)

	require.Len(t, grader.got, 1)
	assert.Equal(t, models.ModeClaimOnly, grader.got[0].Mode)
	assert.Equal(t, "Ambition corrupts morality.", grader.got[0].Sections[models.MainClaim])
}

func TestCritiqueAPIValidationError(t *testing.T) {
	router := newTestRouter(t, &stubGrader{}, stubAssets{})

	w := postJSON(router, "/api/critique", CritiqueRequest{
		Mode:     "complete",
		Sections: map[string]string{"main_claim": "c", "evidence_one": "e1", "reasoning_one": "r1", "evidence_two": "e2", "conclusion_statement": "end"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"prompt", "student_name", "reasoning_two"}, body.Missing)
}

func TestCritiqueAPIUnknownMode(t *testing.T) {
	grader := &stubGrader{}
	router := newTestRouter(t, grader, stubAssets{})

	w := postJSON(router, "/api/critique", CritiqueRequest{Prompt: "p", StudentName: "s", Mode: "everything"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, grader.got)
}

func TestCritiqueAPIUnknownModeListsAllMissing(t *testing.T) {
	grader := &stubGrader{}
	router := newTestRouter(t, grader, stubAssets{})

	w := postJSON(router, "/api/critique", CritiqueRequest{StudentName: "s", Mode: "everything"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"prompt", "mode"}, body.Missing)
	assert.Empty(t, grader.got)
}

func TestCritiqueAPIErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrRateLimited, http.StatusTooManyRequests},
		{&services.GenerationError{Section: models.MainClaim, Err: errors.New("timeout")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		router := newTestRouter(t, &stubGrader{err: tc.err}, stubAssets{})
		w := postJSON(router, "/api/critique", CritiqueRequest{Prompt: "p", StudentName: "s", Mode: "claim_only", Sections: map[string]string{"main_claim": "c"}})
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}

func TestShowFormRendersModeFieldsAndRoster(t *testing.T) {
	router := newTestRouter(t, &stubGrader{}, stubAssets{names: []string{"Jane Doe", "John Roe"}})

	req := httptest.NewRequest(http.MethodGet, "/?mode=claim_evidence1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `name="main_claim"`)
	assert.Contains(t, body, `name="evidence_one"`)
	assert.NotContains(t, body, `name="reasoning_one"`)
	assert.Contains(t, body, `<option value="Jane Doe">Jane Doe</option>`)
	assert.NotContains(t, body, `src="/banner"`)
}

func TestSubmitFormRendersTable(t *testing.T) {
	grader := &stubGrader{result: claimOnlyResult()}
	router := newTestRouter(t, grader, stubAssets{})

	form := url.Values{
		"mode":         {"claim_only"},
		"prompt":       {"Discuss ambition in Macbeth"},
		"student_name": {"Jane Doe"},
		"main_claim":   {"Ambition corrupts morality."},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<th>Critique</th>")
	assert.Contains(t, body, "Be more specific.")
	assert.Contains(t, body, `<td class="type">main claim</td>`)
}

func TestSubmitFormListsMissingFields(t *testing.T) {
	router := newTestRouter(t, &stubGrader{}, stubAssets{})

	form := url.Values{"mode": {"claim_only"}, "main_claim": {"claim"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in: prompt, student_name")
}

func TestSubmitFormRejectsUnknownMode(t *testing.T) {
	grader := &stubGrader{result: claimOnlyResult()}
	router := newTestRouter(t, grader, stubAssets{})

	form := url.Values{
		"mode":         {"complete_journal_typo"},
		"prompt":       {"Discuss ambition in Macbeth"},
		"student_name": {"Jane Doe"},
		"main_claim":   {"c"},
		"evidence_one": {"e1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in: mode")
	assert.NotContains(t, w.Body.String(), "<th>Critique</th>")
	assert.Empty(t, grader.got)
}

func TestBanner(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n....")
	router := newTestRouter(t, &stubGrader{}, stubAssets{banner: &assets.Image{Data: png, ContentType: "image/png"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/banner", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())

	router = newTestRouter(t, &stubGrader{}, stubAssets{})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/banner", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListModesAndRoster(t *testing.T) {
	router := newTestRouter(t, &stubGrader{}, stubAssets{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/modes", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var modes []ModeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &modes))
	require.Len(t, modes, 5)
	assert.Equal(t, "Complete Journal", modes[4].Label)
	assert.Len(t, modes[4].Sections, 6)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/roster", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"names":[]}`, w.Body.String())
}
