package domain

import "time"

type ProofOutcome string

const (
	ProofPending          ProofOutcome = "PENDING"
	ProofAutoVerified     ProofOutcome = "AUTO_VERIFIED"
	ProofManuallyVerified ProofOutcome = "MANUALLY_VERIFIED"
	ProofRejected         ProofOutcome = "REJECTED"
)

// ProofArtifact is an uploaded payment evidence record. Artifacts accumulate
// historically per order; exactly one (the most recent) is active at any
// time, and an artifact is immutable once its outcome is recorded.
type ProofArtifact struct {
	ID              string
	OrderID         string
	StorageRef      string
	Filename        string
	MimeType        string
	Outcome         ProofOutcome
	ConfidenceScore float64
	FailureReason   string
	Superseded      bool
	UploadedAt      time.Time
}

// ProofRef is what the upload path hands back to the caller.
type ProofRef struct {
	ProofID    string
	OrderID    string
	StorageRef string
}

// VerificationResult is the scorer's verdict for one artifact against the
// order's expected amount and currency.
type VerificationResult struct {
	DetectedAmount   float64
	DetectedCurrency string
	RecipientMatch   bool
	ConfidenceScore  float64
	IsAutoVerifiable bool
	FailureReason    string
}

// FileValidationResult is the external validator's verdict. The core only
// accepts artifacts with IsValid = true and never inspects the payload
// format itself.
type FileValidationResult struct {
	IsValid           bool
	DetectedMimeType  string
	SanitizedFilename string
	Reason            string
}
