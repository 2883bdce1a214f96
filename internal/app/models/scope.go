package models

import (
	"fmt"
	"strings"

	"github.com/yigit/dojo/internal/pkg/apperrors"
)

// GraduationScope is the breadth of a graduation event
type GraduationScope string

const (
	ScopeInternal GraduationScope = "internal"
	ScopeRegional GraduationScope = "regional"
	ScopeNational GraduationScope = "national"
)

var scopeRank = map[GraduationScope]int{
	ScopeInternal: 1,
	ScopeRegional: 2,
	ScopeNational: 3,
}

// ErrInvalidScope is returned for values that are not a known scope
var ErrInvalidScope = fmt.Errorf("%w: unrecognized graduation scope", apperrors.ErrValidationFailed)

// ParseGraduationScope normalizes a scope name
func ParseGraduationScope(value string) (GraduationScope, error) {
	s := GraduationScope(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := scopeRank[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, value)
	}
	return s, nil
}

// IsValid reports whether the scope is recognized
func (s GraduationScope) IsValid() bool {
	_, ok := scopeRank[s]
	return ok
}

// MaxPermittedScope returns the broadest recognized scope of the plan.
// ok is false when the plan is nil or has no recognized scope.
func MaxPermittedScope(plan *MonthlyPlan) (broadest GraduationScope, ok bool) {
	if plan == nil {
		return "", false
	}
	best := 0
	for _, s := range plan.GraduationScopes {
		if r, known := scopeRank[s]; known && r > best {
			best = r
			broadest = s
		}
	}
	return broadest, best > 0
}

// IsScopePermitted reports whether the plan allows graduations of the requested scope.
// Anything unrecognized is rejected.
func IsScopePermitted(plan *MonthlyPlan, requested GraduationScope) bool {
	want, known := scopeRank[requested]
	if !known {
		return false
	}
	broadest, ok := MaxPermittedScope(plan)
	if !ok {
		return false
	}
	return want <= scopeRank[broadest]
}
