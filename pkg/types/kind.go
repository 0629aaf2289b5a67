package types

// Kind identifies a metric category. The set of kinds is closed; there is
// no dynamic registration.
type Kind string

// Metric kinds tracked by the store.
const (
	KindConsensusLatency    Kind = "consensus-latency"
	KindBlockPropagation    Kind = "block-propagation"
	KindTxValidationTime    Kind = "tx-validation-time"
	KindMempoolSize         Kind = "mempool-size"
	KindNodeAvailability    Kind = "node-availability"
	KindNetworkThroughput   Kind = "network-throughput"
	KindStakerParticipation Kind = "staker-participation"
	KindPeerConnectivity    Kind = "peer-connectivity"
)

// Range is the inclusive acceptance interval for a kind's measurement value.
type Range struct {
	Min int64
	Max int64
}

// kindRanges is the single source of truth for both kind validity and
// measurement range checks, so the two cannot drift.
var kindRanges = map[Kind]Range{
	KindConsensusLatency:    {Min: 100, Max: 5000},
	KindBlockPropagation:    {Min: 500, Max: 10000},
	KindTxValidationTime:    {Min: 10, Max: 1000},
	KindMempoolSize:         {Min: 0, Max: 10000},
	KindNodeAvailability:    {Min: 0, Max: 100},
	KindNetworkThroughput:   {Min: 0, Max: 100000},
	KindStakerParticipation: {Min: 0, Max: 100},
	KindPeerConnectivity:    {Min: 0, Max: 10000},
}

// Kinds returns all recognized kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindConsensusLatency,
		KindBlockPropagation,
		KindTxValidationTime,
		KindMempoolSize,
		KindNodeAvailability,
		KindNetworkThroughput,
		KindStakerParticipation,
		KindPeerConnectivity,
	}
}

// IsValidKind reports whether k is one of the recognized metric kinds.
func IsValidKind(k Kind) bool {
	_, ok := kindRanges[k]
	return ok
}

// IsValidMeasurement reports whether value is inside k's inclusive
// acceptance range. An unrecognized kind is never valid.
func IsValidMeasurement(k Kind, value int64) bool {
	r, ok := kindRanges[k]
	if !ok {
		return false
	}
	return value >= r.Min && value <= r.Max
}

// KindRange returns the acceptance range for k. The second return value is
// false when k is not a recognized kind.
func KindRange(k Kind) (Range, bool) {
	r, ok := kindRanges[k]
	return r, ok
}
