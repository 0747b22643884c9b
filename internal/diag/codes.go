package diag

import (
	"fmt"
)

// Code identifies one diagnostic kind. Ranges are reserved per phase so
// codes stay stable as phases grow.
type Code uint16

const (
	UnknownCode Code = 0

	// Type-table / semantic plumbing.
	SemInfo          Code = 4000
	SemStaleHandle   Code = 4002
	SemUnknownMember Code = 4003

	// Template resolution and instantiation.
	TplInfo                     Code = 5000
	TplUnknownTemplate          Code = 5001
	TplArityMismatch            Code = 5002
	TplNoPatternMatched         Code = 5003
	TplAmbiguousSpecialization  Code = 5004
	TplSelfRecursive            Code = 5005
	TplDepthExceeded            Code = 5006
	TplValueNotConstant         Code = 5008
	TplDuplicateSpecialization  Code = 5009
	TplMemberBodyUnavailable    Code = 5010
	TplNonTypeParamNotIntegral  Code = 5012
	TplTemplateTemplateMismatch Code = 5013
)

func (c Code) String() string {
	return fmt.Sprintf("CX%04d", uint16(c))
}
