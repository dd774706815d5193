package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adshao/go-binance/v2/common"
)

// Exchange errors. Adapters wrap the underlying error with one of these so
// callers can use errors.Is.
var (
	ErrUnknown              = errors.New("unknown exchange error")
	ErrInvalidRequest       = errors.New("invalid request parameters or format")
	ErrTimeout              = errors.New("operation timed out")
	ErrCanceled             = errors.New("operation canceled via context")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrBadKline             = errors.New("malformed kline")
)

// handleError translates Binance API and transport errors into the errors
// above and logs the original.
func (f *Fetcher) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		var mapped error
		switch apiErr.Code {
		case -1003: // Too many requests
			mapped = ErrRateLimited
		case -1021: // Timestamp outside of recvWindow
			mapped = ErrTimeout
		case -1022, -2014, -2015: // Bad signature, key format or permissions
			mapped = ErrAuthenticationFailed
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1115, -1116, -1117, -1120, -1121, -1125, -1127, -1128, -1130:
			mapped = ErrInvalidRequest
		default:
			mapped = ErrUnknown
		}
		f.log.ErrorContext(ctx, operation+" failed with API error",
			slog.Int64("code", apiErr.Code), slog.String("message", apiErr.Message))
		return fmt.Errorf("%s failed: %w: %w", operation, mapped, err)
	}

	var mapped error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		mapped = ErrTimeout
	case errors.Is(err, context.Canceled):
		mapped = ErrCanceled
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "connection reset by peer"),
		strings.Contains(err.Error(), "no such host"):
		mapped = ErrConnectionFailed
	case errors.Is(err, ErrBadKline):
		return fmt.Errorf("%s failed: %w", operation, err)
	default:
		mapped = ErrUnknown
	}
	f.log.ErrorContext(ctx, operation+" failed", slog.Any("err", err))
	return fmt.Errorf("%s failed: %w: %w", operation, mapped, err)
}
