package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Status   Field[string]   `json:"status"`
	Priority Field[string]   `json:"priority"`
	Tags     Field[[]string] `json:"tags"`
}

func TestDistinguishesAbsentNullAndValue(t *testing.T) {
	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"status":"done","priority":null}`), &d))

	assert.True(t, d.Status.HasValue())
	assert.Equal(t, "done", d.Status.Value)

	assert.True(t, d.Priority.Set)
	assert.True(t, d.Priority.Null)
	assert.Nil(t, d.Priority.Ptr())

	assert.False(t, d.Tags.Set)
}

func TestConstructors(t *testing.T) {
	v := Value([]string{"a"})
	require.NotNil(t, v.Ptr())
	assert.Equal(t, []string{"a"}, *v.Ptr())

	n := Null[int]()
	assert.True(t, n.Set)
	assert.False(t, n.HasValue())

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out))
}
