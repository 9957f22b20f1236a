package ordering

import (
	"fmt"
	"strings"

	"github.com/agentstation/instantbox/pkg/errors"
)

// Policy selects how groups and ungrouped pack listings are ordered.
type Policy string

// Group ordering policies.
const (
	PolicyStable       Policy = "stable"
	PolicyNameAsc      Policy = "name-asc"
	PolicyNameDesc     Policy = "name-desc"
	PolicyPurchaseAsc  Policy = "purchase-asc"
	PolicyPurchaseDesc Policy = "purchase-desc"
)

// Policies lists every group policy.
var Policies = []Policy{PolicyStable, PolicyNameAsc, PolicyNameDesc, PolicyPurchaseAsc, PolicyPurchaseDesc}

// ParsePolicy parses a policy name. The empty string is PolicyStable.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return PolicyStable, nil
	}
	for _, p := range Policies {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", errors.NewValidationError("sort", s, fmt.Sprintf("must be one of %v", Policies))
}

// CameraSort selects how cameras are listed.
type CameraSort string

// Camera orderings.
const (
	CameraNameAsc          CameraSort = "name-asc"
	CameraNameDesc         CameraSort = "name-desc"
	CameraDateAdded        CameraSort = "date-added"
	CameraDateAddedReverse CameraSort = "date-added-reverse"
	CameraLoadedFirst      CameraSort = "loaded-first"
	CameraUnloadedFirst    CameraSort = "unloaded-first"
)

// CameraSorts lists every camera ordering.
var CameraSorts = []CameraSort{
	CameraNameAsc, CameraNameDesc, CameraDateAdded, CameraDateAddedReverse, CameraLoadedFirst, CameraUnloadedFirst,
}

// ParseCameraSort parses a camera ordering. The empty string is CameraDateAdded.
func ParseCameraSort(s string) (CameraSort, error) {
	if s == "" {
		return CameraDateAdded, nil
	}
	for _, c := range CameraSorts {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", errors.NewValidationError("sort", s, fmt.Sprintf("must be one of %v", CameraSorts))
}
