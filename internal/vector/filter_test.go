package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBodyEmpty(t *testing.T) {
	assert.Nil(t, NewFilter().Body())
	assert.Nil(t, (*Filter)(nil).Body())
	assert.Nil(t, NewFilter().MustNotIDs(nil).Body())
}

func TestFilterBodyClauses(t *testing.T) {
	body := NewFilter().
		MustMatch("type", "user").
		MustNotMatch("status", "banned").
		MustNotIDs([]string{"a", "b"}).
		Body()
	require.NotNil(t, body)

	must := body["must"].([]map[string]interface{})
	require.Len(t, must, 1)
	assert.Equal(t, "type", must[0]["key"])

	mustNot := body["must_not"].([]map[string]interface{})
	require.Len(t, mustNot, 2)
	assert.Equal(t, "status", mustNot[0]["key"])
	assert.Equal(t, []string{"a", "b"}, mustNot[1]["has_id"])
}
