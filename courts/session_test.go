package courts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantraven93/court-tracker-api/captcha"
)

func TestAnswerFromMarkup_DataAttribute(t *testing.T) {
	page := `<form><img class="captcha-img" src="/captcha.png" data-answer="42"></form>`
	assert.Equal(t, "42", answerFromMarkup(page))
}

func TestAnswerFromMarkup_HiddenInput(t *testing.T) {
	page := `<input type="hidden" name="captcha_code" value="173">`
	assert.Equal(t, "173", answerFromMarkup(page))
}

func TestAnswerFromMarkup_Expression(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"addition", `<img src="/cap.png" alt="3 + 4 = ?">`, "7"},
		{"subtraction", `<img src="/cap.png" alt="9-2">`, "7"},
		{"multiplication", `<img src="/cap.png" alt="6 * 7">`, "42"},
		{"data expression", `<span data-expression="10+5"></span>`, "15"},
		{"no leak", `<img src="/cap.png" alt="captcha image">`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, answerFromMarkup(tt.page))
		})
	}
}

func TestAnswerFromMarkup_PrefersPrecomputedAnswer(t *testing.T) {
	// when both forms leak, the precomputed answer wins over the expression
	page := `<img src="/cap.png" alt="3+4" data-answer="99">`
	assert.Equal(t, "99", answerFromMarkup(page))
}

func TestFindCaptchaImage(t *testing.T) {
	assert.Equal(t, "/cap.png", findCaptchaImage(`<img id="captcha_image" src="/cap.png">`))
	assert.Equal(t, "/securimage_show.php?captcha=1", findCaptchaImage(`<img src="/securimage_show.php?captcha=1">`))
	assert.Equal(t, "", findCaptchaImage(`<img src="/logo.png">`))
}

func TestNegotiatorOpen_NoCaptchaGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "abc123"})
		http.SetCookie(w, &http.Cookie{Name: "JSESSION", Value: "def456"})
		w.Write([]byte(`<html><input name="app_token" value="tok-99"><form></form></html>`))
	}))
	defer srv.Close()

	n := &negotiator{client: newPortalClient(5 * time.Second), solver: captcha.NewSolver("", "", "")}
	s, err := n.open(context.Background(), srv.URL)

	assert.Nil(t, err)
	assert.Equal(t, "PHPSESSID=abc123; JSESSION=def456", s.cookies)
	assert.Equal(t, "tok-99", s.csrfToken)
	assert.Equal(t, "", s.captchaAnswer)
}

func TestNegotiatorOpen_LeakSkipsImageFetch(t *testing.T) {
	imageFetched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cap.png" {
			imageFetched = true
			w.Write([]byte("png"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "x"})
		w.Write([]byte(`<img class="captcha" src="/cap.png" alt="2 + 3 = ?">`))
	}))
	defer srv.Close()

	n := &negotiator{client: newPortalClient(5 * time.Second), solver: captcha.NewSolver("", "", "")}
	s, err := n.open(context.Background(), srv.URL)

	assert.Nil(t, err)
	assert.Equal(t, "5", s.captchaAnswer)
	assert.False(t, imageFetched)
}

func TestNegotiatorOpen_UnsolvableCaptchaFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cap.png" {
			w.Write([]byte("png-bytes"))
			return
		}
		w.Write([]byte(`<img class="captcha" src="/cap.png">`))
	}))
	defer srv.Close()

	// unconfigured solver cannot produce an answer
	n := &negotiator{client: newPortalClient(5 * time.Second), solver: captcha.NewSolver("", "", "")}
	s, err := n.open(context.Background(), srv.URL)

	assert.Nil(t, s)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "captcha could not be solved")
}

func TestNegotiatorOpen_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := &negotiator{client: newPortalClient(5 * time.Second), solver: captcha.NewSolver("", "", "")}
	s, err := n.open(context.Background(), srv.URL)

	assert.Nil(t, s)
	assert.NotNil(t, err)
}

func TestLooksLikeCaptchaRejection(t *testing.T) {
	assert.True(t, looksLikeCaptchaRejection(`<div class="error">Invalid Captcha. Please try again.</div>`))
	assert.True(t, looksLikeCaptchaRejection(`<span>CAPTCHA mismatch</span>`))
	assert.True(t, looksLikeCaptchaRejection(`Please enter captcha`))
	assert.False(t, looksLikeCaptchaRejection(`<table><tr><td>Case Status</td><td>Pending</td></tr></table>`))
}

func TestLooksLikeNoRecord(t *testing.T) {
	assert.True(t, looksLikeNoRecord(`<b>No Record Found</b>`))
	assert.True(t, looksLikeNoRecord(`This Case Code does not exist`))
	assert.True(t, looksLikeNoRecord(`no data found for the given query`))
	assert.False(t, looksLikeNoRecord(`<td>Next Hearing Date</td><td>12-09-2026</td>`))
}
