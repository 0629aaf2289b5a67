package types

// ValidateObservation runs the write-time checks shared by Record and Amend,
// in the fixed order kind, value, annotation. The first failure wins and is
// returned as its sentinel error.
func ValidateObservation(k Kind, value int64, annotation string) error {
	if !IsValidKind(k) {
		return ErrInvalidKind
	}
	if !IsValidMeasurement(k, value) {
		return ErrInvalidMeasurement
	}
	if !ValidAnnotation(annotation) {
		return ErrInvalidAnnotation
	}
	return nil
}
