package constants

// Stage is the canonical assembly stage for a document moving through the
// pipeline. Stages are linear; assembly never branches back and always
// terminates at FINAL, even when earlier stages produced diagnostics.
type Stage string

const (
	StageClassified      Stage = "CLASSIFIED"       // rule set selected
	StageFieldsExtracted Stage = "FIELDS_EXTRACTED" // scalar captures taken
	StageTableExtracted  Stage = "TABLE_EXTRACTED"  // line-item rows captured
	StageNormalized      Stage = "NORMALIZED"       // raw captures canonicalized
	StageValidated       Stage = "VALIDATED"        // invariants checked
	StageFinal           Stage = "FINAL"            // terminal; record + report ready
)
