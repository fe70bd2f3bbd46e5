package courts

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// maxLookupAttempts bounds the session/CAPTCHA retry loop. Each attempt
// negotiates an entirely fresh session: a rejected CAPTCHA invalidates the
// cookies and token along with the answer.
const maxLookupAttempts = 3

// errCaptchaRejected is returned by an attempt when the upstream reports the
// supplied CAPTCHA answer wrong
var errCaptchaRejected = errors.New("captcha rejected by upstream")

// errAttemptsExhausted is returned by withFreshSession when every attempt was
// CAPTCHA-rejected. Providers translate it into a null result, never a
// raised error.
var errAttemptsExhausted = errors.New("lookup attempts exhausted")

// withFreshSession runs one logical lookup with the shared retry policy:
// negotiate a session, run the attempt, and on CAPTCHA rejection start over
// with a new session, up to maxLookupAttempts times. Session negotiation
// failures count as attempts too, so an unsolvable CAPTCHA cannot loop
// forever. Any other attempt error is terminal and propagates.
func withFreshSession(ctx context.Context, provider string, n *negotiator, pageURL string, attempt func(ctx context.Context, s *session) error) error {
	var lastErr error
	for i := 1; i <= maxLookupAttempts; i++ {
		s, err := n.open(ctx, pageURL)
		if err != nil {
			logAttempt(provider, i, err)
			lastErr = err
			continue
		}

		err = attempt(ctx, s)
		if err == nil {
			return nil
		}
		if errors.Is(err, errCaptchaRejected) {
			logAttempt(provider, i, err)
			lastErr = err
			continue
		}
		return err
	}

	zap.S().Warnw("lookup gave up after retries",
		"provider", provider,
		"attempts", maxLookupAttempts,
		"lastError", lastErr,
	)
	return errAttemptsExhausted
}
