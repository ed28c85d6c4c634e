package sitesnap_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/sitesnap"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitesnap.Errorf(sitesnap.ENOTFOUND, "no sitemap found for %q", "https://example.com")

	assert.Equal(t, sitesnap.ENOTFOUND, sitesnap.ErrorCode(err))
	assert.Equal(t, "no sitemap found for \"https://example.com\"", sitesnap.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitesnap.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sitesnap.EINTERNAL, sitesnap.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitesnap.ErrorMessage(nil))
}

func TestSnapshot_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot sitesnap.Snapshot
		wantCode string
	}{
		{
			name:     "valid",
			snapshot: sitesnap.Snapshot{URL: "https://example.com/", HTML: "<html></html>"},
		},
		{
			name:     "missing URL",
			snapshot: sitesnap.Snapshot{HTML: "<html></html>"},
			wantCode: sitesnap.EINVALID,
		},
		{
			name:     "missing HTML",
			snapshot: sitesnap.Snapshot{URL: "https://example.com/"},
			wantCode: sitesnap.EINVALID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.snapshot.Validate()

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, sitesnap.ErrorCode(err))
		})
	}
}
