package courts

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/captcha"
	"github.com/quantraven93/court-tracker-api/markup"
)

// session holds everything negotiated with a portal before it will accept a
// case query: the verbatim cookie chain, any CSRF token, and the solved
// CAPTCHA answer. A rejected CAPTCHA invalidates the whole session, not just
// the answer.
type session struct {
	cookies       string
	csrfToken     string
	captchaAnswer string
}

// negotiator acquires sessions from a portal's case-status page
type negotiator struct {
	client *portalClient
	solver *captcha.Solver
}

var (
	csrfInputRe = regexp.MustCompile(`(?i)<input[^>]+name=["'](?:__csrf_magic|csrf_token|csrfToken|_token|app_token|csrf)["'][^>]*value=["']([^"']*)["']`)
	csrfValueRe = regexp.MustCompile(`(?i)<input[^>]+value=["']([^"']*)["'][^>]*name=["'](?:__csrf_magic|csrf_token|csrfToken|_token|app_token|csrf)["']`)

	captchaImgRe = regexp.MustCompile(`(?i)<img[^>]+(?:id|class)=["'][^"']*captcha[^"']*["'][^>]*src=["']([^"']+)["']|<img[^>]+src=["']([^"']*captcha[^"']*)["']`)

	// Some deployments leak the answer or the raw expression in markup;
	// that path costs no vision call and is always tried first
	leakAnswerRe = regexp.MustCompile(`(?i)(?:data-answer|data-captcha-answer)=["']\s*(-?\d+)\s*["']|<input[^>]+type=["']hidden["'][^>]*name=["'][^"']*captcha[^"']*["'][^>]*value=["']\s*(-?\d+)\s*["']`)
	leakExprRe   = regexp.MustCompile(`(?i)(?:alt|data-expression|data-captcha)=["']\s*(\d+)\s*([+\-*])\s*(\d+)\s*=?\s*\??\s*["']`)
)

// open negotiates a fresh session against the portal's case-status page.
// It returns an error when the page fetch fails or when no CAPTCHA answer
// can be obtained through either the in-markup leak or the vision solver.
func (n *negotiator) open(ctx context.Context, pageURL string) (*session, error) {
	page, setCookies, err := n.client.get(ctx, pageURL, "")
	if err != nil {
		return nil, fmt.Errorf("portal page fetch failed: %w", err)
	}

	s := &session{cookies: joinCookies("", setCookies)}

	if m := csrfInputRe.FindStringSubmatch(page); m != nil {
		s.csrfToken = m[1]
	} else if m := csrfValueRe.FindStringSubmatch(page); m != nil {
		s.csrfToken = m[1]
	}

	imgSrc := findCaptchaImage(page)
	if imgSrc == "" {
		// portal without a CAPTCHA gate; session is just cookies
		return s, nil
	}

	if answer := answerFromMarkup(page); answer != "" {
		s.captchaAnswer = answer
		return s, nil
	}

	image, imgCookies, err := n.client.getBytes(ctx, resolveURL(pageURL, imgSrc), s.cookies)
	if err != nil {
		return nil, fmt.Errorf("captcha image fetch failed: %w", err)
	}
	s.cookies = joinCookies(s.cookies, imgCookies)

	answer := n.solver.Solve(ctx, image)
	if answer == "" {
		return nil, fmt.Errorf("captcha could not be solved")
	}
	s.captchaAnswer = answer
	return s, nil
}

func findCaptchaImage(page string) string {
	m := captchaImgRe.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// answerFromMarkup recovers the CAPTCHA answer without a vision call when a
// deployment leaks it: a precomputed answer in a data attribute or hidden
// input, or the raw expression in alt text
func answerFromMarkup(page string) string {
	if m := leakAnswerRe.FindStringSubmatch(page); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	if m := leakExprRe.FindStringSubmatch(page); m != nil {
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[3])
		if errA != nil || errB != nil {
			return ""
		}
		switch m[2] {
		case "+":
			return strconv.Itoa(a + b)
		case "-":
			return strconv.Itoa(a - b)
		case "*":
			return strconv.Itoa(a * b)
		}
	}
	return ""
}

// looksLikeCaptchaRejection classifies an upstream response as a wrong
// CAPTCHA answer, which callers treat as "discard the session and retry"
func looksLikeCaptchaRejection(body string) bool {
	text := strings.ToLower(markup.StripTags(body))
	for _, marker := range []string{"invalid captcha", "captcha mismatch", "incorrect captcha", "wrong captcha", "enter captcha"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// looksLikeNoRecord classifies an upstream response as an explicit
// no-matching-case reply, terminal for a provider but not an error
func looksLikeNoRecord(body string) bool {
	text := strings.ToLower(markup.StripTags(body))
	for _, marker := range []string{"no record found", "record not found", "no case found", "case code does not exist", "no data found", "invalid case"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func logAttempt(provider string, attempt int, err error) {
	zap.S().Debugw("lookup attempt failed",
		"provider", provider,
		"attempt", attempt,
		"error", err,
	)
}
