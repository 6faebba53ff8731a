package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServiceCopy(t *testing.T) {
	var written string
	service := &Service{
		unsupported: func() bool { return false },
		write: func(text string) error {
			written = text
			return nil
		},
	}
	require.NoError(t, service.Copy(`{"risk_level":"LOW"}`))
	require.Equal(t, `{"risk_level":"LOW"}`, written)
}

func TestServiceCopyUnsupported(t *testing.T) {
	service := &Service{
		unsupported: func() bool { return true },
		write:       func(string) error { return nil },
	}
	require.ErrorIs(t, service.Copy("text"), ErrUnavailable)
}

func TestServiceCopyWrapsWriteFailure(t *testing.T) {
	failure := errors.New("xclip exited")
	service := &Service{
		unsupported: func() bool { return false },
		write:       func(string) error { return failure },
	}
	require.ErrorIs(t, service.Copy("text"), failure)
}
