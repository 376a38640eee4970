package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Shape []int   `json:"shape,omitempty"`
	Value float64 `json:"value"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Agree(t *testing.T) {
	in := sample{Name: "points", Shape: []int{3, 4}, Value: 0.1}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := ByName(name)
			b, err := c.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"name":"points","shape":[3,4],"value":0.1}`, string(b))

			var out sample
			require.NoError(t, c.Unmarshal(b, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestMarshalPretty(t *testing.T) {
	b, err := MarshalPretty(nil, sample{Name: "x"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "\n  \"name\": \"x\""), string(b))
}
