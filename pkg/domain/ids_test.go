package domain_test

import (
	"testing"

	id "agridash/pkg/domain"
	dErrors "agridash/pkg/domain-errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionIDRoundTrip(t *testing.T) {
	orig := id.NewSessionID()

	parsed, err := id.ParseSessionID(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
	assert.False(t, parsed.IsNil())
}

func TestParseSessionIDRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-uuid", "1234", "bo-2021"} {
		_, err := id.ParseSessionID(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	}
}

func TestSessionIDIsNil(t *testing.T) {
	assert.True(t, id.SessionID(uuid.Nil).IsNil())
}
