package sharding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/graph"
)

func TestFromDevice(t *testing.T) {
	tests := []struct {
		name    string
		device  string
		want    *Sharding
		wantErr bool
	}{
		{name: "empty", device: "", want: nil},
		{name: "core", device: "/device:CORE:7", want: &Sharding{Kind: Maximal, Core: 7}},
		{name: "full path", device: "/job:worker/replica:0/task:3/device:CORE:2", want: &Sharding{Kind: Maximal, Core: 2}},
		{name: "replicated", device: "/device:CORE:all", want: &Sharding{Kind: Replicated}},
		{name: "cpu", device: "/job:localhost/device:CPU:0", want: nil},
		{name: "gpu", device: "/device:GPU:1", want: nil},
		{name: "no device component", device: "/job:worker/task:0", want: nil},
		{name: "missing id", device: "/device:CORE", wantErr: true},
		{name: "malformed id", device: "/device:CORE:banana", wantErr: true},
		{name: "negative id", device: "/device:CORE:-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromDevice(tt.device)
			if tt.wantErr {
				require.ErrorIs(t, err, graph.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "maximal", Maximal.String())
	assert.Equal(t, "replicated", Replicated.String())
}
