package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidKind(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{"consensus latency", KindConsensusLatency, true},
		{"block propagation", KindBlockPropagation, true},
		{"tx validation time", KindTxValidationTime, true},
		{"mempool size", KindMempoolSize, true},
		{"node availability", KindNodeAvailability, true},
		{"network throughput", KindNetworkThroughput, true},
		{"staker participation", KindStakerParticipation, true},
		{"peer connectivity", KindPeerConnectivity, true},
		{"empty kind rejected", Kind(""), false},
		{"unknown kind rejected", Kind("disk-usage"), false},
		{"case sensitive", Kind("Consensus-Latency"), false},
		{"whitespace rejected", Kind(" consensus-latency"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidKind(tt.kind))
		})
	}
}

func TestKindsCoversAllRanges(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 8)

	seen := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		assert.True(t, IsValidKind(k), "listed kind %q must be valid", k)
		assert.False(t, seen[k], "kind %q listed twice", k)
		seen[k] = true
	}
}

func TestIsValidMeasurement(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		value int64
		want  bool
	}{
		{"consensus latency in range", KindConsensusLatency, 2500, true},
		{"consensus latency at min", KindConsensusLatency, 100, true},
		{"consensus latency at max", KindConsensusLatency, 5000, true},
		{"consensus latency below min", KindConsensusLatency, 50, false},
		{"consensus latency above max", KindConsensusLatency, 6000, false},
		{"block propagation below min", KindBlockPropagation, 499, false},
		{"block propagation at min", KindBlockPropagation, 500, true},
		{"block propagation at max", KindBlockPropagation, 10000, true},
		{"tx validation at min", KindTxValidationTime, 10, true},
		{"tx validation below min", KindTxValidationTime, 9, false},
		{"mempool size zero", KindMempoolSize, 0, true},
		{"mempool size at max", KindMempoolSize, 10000, true},
		{"mempool size above max", KindMempoolSize, 10001, false},
		{"availability full", KindNodeAvailability, 100, true},
		{"availability above max", KindNodeAvailability, 101, false},
		{"throughput at max", KindNetworkThroughput, 100000, true},
		{"participation zero", KindStakerParticipation, 0, true},
		{"peer connectivity in range", KindPeerConnectivity, 64, true},
		{"negative value rejected", KindMempoolSize, -1, false},
		{"invalid kind never valid", Kind("disk-usage"), 50, false},
		{"empty kind never valid", Kind(""), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMeasurement(tt.kind, tt.value))
		})
	}
}

func TestKindRange(t *testing.T) {
	r, ok := KindRange(KindConsensusLatency)
	assert.True(t, ok)
	assert.Equal(t, Range{Min: 100, Max: 5000}, r)

	_, ok = KindRange(Kind("disk-usage"))
	assert.False(t, ok)
}

func TestKindRangeAgreesWithIsValidMeasurement(t *testing.T) {
	// The range returned by KindRange and the check in IsValidMeasurement
	// must agree at every boundary.
	for _, k := range Kinds() {
		r, ok := KindRange(k)
		assert.True(t, ok)

		assert.True(t, IsValidMeasurement(k, r.Min), "%s min", k)
		assert.True(t, IsValidMeasurement(k, r.Max), "%s max", k)
		assert.False(t, IsValidMeasurement(k, r.Min-1), "%s below min", k)
		assert.False(t, IsValidMeasurement(k, r.Max+1), "%s above max", k)
	}
}
