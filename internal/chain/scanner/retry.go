package scanner

import "strings"

// retryableFragments are matched by substring because providers phrase the
// same condition inconsistently: some answer HTTP 400 to an oversized
// eth_getLogs range, others 429, others a plain-text complaint.
var retryableFragments = []string{
	"status code: 400",
	"status code: 429",
	"too many requests",
	"rate limit",
	"rate-limit",
	"range too large",
	"block range",
	"too many results",
	"query returned more than",
	"response size exceeded",
	"timeout",
}

// IsRetryable reports whether an error is a transient provider constraint
// worth retrying at a smaller chunk size. The matching rules are fragile by
// nature; keeping them in one place keeps them testable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
