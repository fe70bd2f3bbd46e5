package courts

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// browserUserAgent is sent on every portal request. The government portals
// reject obvious non-browser clients, so the headers mimic an ordinary
// desktop browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// portalClient wraps an HTTP client tuned for scraping the court portals:
// pooled connections, bounded redirects, browser-like headers, and manual
// cookie handling (cookies are captured verbatim and re-sent per session
// rather than through a jar, preserving upstream ordering).
type portalClient struct {
	httpClient *http.Client
}

func newPortalClient(timeout time.Duration) *portalClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return &portalClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects (max 10)")
				}
				return nil
			},
		},
	}
}

func (c *portalClient) do(ctx context.Context, method, target, cookies string, form url.Values) (body string, setCookies []string, err error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,hi;q=0.8")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}
	return string(raw), cookieValues(resp), nil
}

func (c *portalClient) get(ctx context.Context, target, cookies string) (string, []string, error) {
	return c.do(ctx, http.MethodGet, target, cookies, nil)
}

func (c *portalClient) postForm(ctx context.Context, target, cookies string, form url.Values) (string, []string, error) {
	return c.do(ctx, http.MethodPost, target, cookies, form)
}

// getBytes fetches a binary resource (the CAPTCHA image) with session cookies
func (c *portalClient) getBytes(ctx context.Context, target, cookies string) ([]byte, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}
	return raw, cookieValues(resp), nil
}

// cookieValues captures every Set-Cookie value verbatim, order preserved
func cookieValues(resp *http.Response) []string {
	var out []string
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if i := strings.Index(sc, ";"); i >= 0 {
			sc = sc[:i]
		}
		sc = strings.TrimSpace(sc)
		if sc != "" {
			out = append(out, sc)
		}
	}
	return out
}

// joinCookies appends newly set cookies onto an existing semicolon-joined
// cookie string, keeping upstream order
func joinCookies(existing string, added []string) string {
	parts := []string{}
	if existing != "" {
		parts = append(parts, existing)
	}
	parts = append(parts, added...)
	return strings.Join(parts, "; ")
}

// resolveURL resolves a possibly-relative href against the page it came from
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
