package cli

import (
	"fmt"
	"testing"

	"openbook-trader/internal/errors"
	"openbook-trader/internal/resilience"
)

func TestRetryableSubmitError(t *testing.T) {
	stale := errors.NewGatewayError("submit", "",
		fmt.Errorf("%w: rejected", errors.ErrStaleBlockhash))
	if !retryableSubmitError(stale) {
		t.Error("stale blockhash rejection not retried")
	}

	transport := errors.NewGatewayError("latest-blockhash", "", fmt.Errorf("connection refused"))
	if !retryableSubmitError(transport) {
		t.Error("transport failure not retried")
	}

	if retryableSubmitError(errors.NewConversionError("price", "0", "must be positive")) {
		t.Error("conversion error retried")
	}
	if retryableSubmitError(errors.NewEncodingError("place_order", "name", "string exceeds accepted length")) {
		t.Error("encoding error retried")
	}
	if retryableSubmitError(resilience.ErrCircuitOpen) {
		t.Error("open circuit retried")
	}
}
