package msgpackmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	t.Parallel()

	c := Codec{}
	require.Equal(t, "msgpack", c.Name())

	wire, err := c.Encode(map[string]any{"user": "ada"})
	require.NoError(t, err)

	decoded, err := c.Decode(wire)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"user": "ada"}, decoded)

	_, err = c.Decode([]byte{0xc1}) // 0xc1 is never used in msgpack
	require.Error(t, err)
}
