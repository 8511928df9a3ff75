package toolerr

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Classify reduces any error returned by a domain client to an *Error.
// Errors that already are *Error pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if te, ok := As(err); ok {
		return te
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return Remote(categoryFor(gerr), gerr.Code, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Remote(CategoryTransient, 0, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Remote(CategoryTransient, 0, err)
	}

	return Remote(CategoryOther, 0, err)
}

func categoryFor(gerr *googleapi.Error) Category {
	switch {
	case gerr.Code == http.StatusNotFound, gerr.Code == http.StatusGone:
		return CategoryNotFound
	case gerr.Code == http.StatusTooManyRequests:
		return CategoryRateLimited
	case gerr.Code == http.StatusForbidden:
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "rateLimitExceeded", "userRateLimitExceeded":
				return CategoryRateLimited
			case "quotaExceeded", "dailyLimitExceeded", "storageQuotaExceeded":
				return CategoryQuotaExceeded
			}
		}
		return CategoryPermissionDenied
	case gerr.Code == http.StatusUnauthorized:
		return CategoryPermissionDenied
	case gerr.Code >= 500:
		return CategoryTransient
	default:
		return CategoryOther
	}
}
