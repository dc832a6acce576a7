package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_UnwrapsChain(t *testing.T) {
	base := NewStoreError(KindDuplicate, "messages.insert", errors.New("unique"))
	wrapped := fmt.Errorf("record inbound: %w", base)

	assert.Equal(t, KindDuplicate, KindOf(wrapped))
	assert.True(t, IsDuplicate(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Contains(t, base.Error(), "messages.insert: duplicate")
}

func TestGenericErrors_StatusCodes(t *testing.T) {
	cases := []struct {
		err  GenericError
		code int
	}{
		{ValidationError("x"), 400},
		{UnauthorizedError("x"), 401},
		{ForbiddenError("x"), 403},
		{NotFoundError("x"), 404},
		{GatewayError("x"), 502},
		{InternalServerError("x"), 500},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, c.err.StatusCode(), c.err.ErrCode())
	}
}
