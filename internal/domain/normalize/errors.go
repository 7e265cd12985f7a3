package normalize

import "errors"

// Sentinel kinds for normalization errors. These allow errors.Is/As from
// callers; all are validation errors with no local recovery.
var (
	ErrSchema           = errors.New("schema mismatch")
	ErrBadSemester      = errors.New("unparsable semester value")
	ErrBadScore         = errors.New("non-numeric score value")
	ErrNoSubjectColumns = errors.New("no subject columns found in dataset")
)
