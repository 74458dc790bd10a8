package candle

import (
	"context"
	"testing"

	"voltrix/pkg/errors"
	"voltrix/pkg/errors/ecode"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRejectsUnknownResolution(t *testing.T) {
	h := NewHistory(nil)
	_, err := h.Query(context.Background(), "BTCUSDT", "42", 0, 1700000000)
	assert.True(t, errors.IsCode(err, ecode.ValidateErr))
}
