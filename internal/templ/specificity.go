package templ

import (
	"cxfront/internal/types"
)

// Specificity scores how much structure the pattern pins down. The
// Registry picks the highest-scoring match among all structurally
// matching patterns; registration order breaks ties (and a true tie is
// additionally surfaced as an ambiguity diagnostic).
func (p *Pattern) Specificity() int {
	score := 0
	for _, pa := range p.Args {
		score += argSpecificity(pa)
	}
	return score
}

func argSpecificity(pa PatternArg) int {
	score := shapeSpecificity(pa.Arg)
	switch pa.Kind {
	case PatternConcrete:
		// Concrete arguments pin everything down; their shape score
		// already reflects the structure.
	case PatternTemplateInst:
		score += 2 + len(pa.Inner)
		for _, inner := range pa.Inner {
			if !isBareParam(inner) {
				score++
			}
		}
	}
	return score
}

// shapeSpecificity scores the qualifier structure of one argument:
// pointer levels, references, arrays and cv-qualifiers each add a
// point of pinned-down structure.
func shapeSpecificity(a TypeArg) int {
	score := int(a.PtrDepth)
	if a.Ref != types.RefNone {
		score++
	}
	if a.IsArray {
		score++
		if a.HasExtent {
			score++
		}
	}
	if a.Quals.Const() {
		score++
	}
	if a.Quals.Volatile() {
		score++
	}
	for i := 0; i < int(a.PtrDepth); i++ {
		q := qualAt(a.PtrQuals, i)
		if q.Const() {
			score++
		}
		if q.Volatile() {
			score++
		}
	}
	return score
}

// isBareParam reports whether the pattern argument is a parameter
// placeholder with no qualifier structure of its own.
func isBareParam(pa PatternArg) bool {
	if pa.Kind != PatternParam {
		return false
	}
	a := pa.Arg
	return a.Ref == types.RefNone && a.PtrDepth == 0 && !a.IsArray &&
		a.Quals == types.QualNone && a.MemberPtr == types.MemberPtrNone
}
