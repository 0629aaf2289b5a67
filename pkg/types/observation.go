package types

// MaxAnnotationLen bounds the annotation attached to an observation, in bytes.
const MaxAnnotationLen = 256

// Observation is a single recorded measurement. The triple
// (Owner, Timestamp, Kind) is the unique key; no two observations share a
// full key. Owner is the identity that recorded the observation and the only
// identity permitted to amend, delete, or share it.
type Observation struct {
	Owner      string // identity that recorded the observation
	Timestamp  int64  // observation time, Unix seconds
	Kind       Kind   // metric category
	Value      int64  // measurement, inside the kind's acceptance range
	Annotation string // optional free text, at most MaxAnnotationLen bytes
}

// ValidAnnotation reports whether a fits within MaxAnnotationLen.
func ValidAnnotation(a string) bool {
	return len(a) <= MaxAnnotationLen
}
