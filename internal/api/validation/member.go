package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/scrimnight/scrimnight/internal/member"
)

// CreateMemberRequest mirrors the fields needed for create member validation.
type CreateMemberRequest struct {
	Name   string
	Handle string
	Tier   *string
}

// ValidateCreateMemberRequest validates the fields of a create member request.
func ValidateCreateMemberRequest(req CreateMemberRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > 100 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 100 characters"})
	}

	handle := strings.TrimSpace(req.Handle)
	switch {
	case handle == "":
		errs = append(errs, FieldError{Field: "handle", Message: "handle is required"})
	case utf8.RuneCountInString(handle) > 100:
		errs = append(errs, FieldError{Field: "handle", Message: "handle must be at most 100 characters"})
	case !validHandle(handle):
		errs = append(errs, FieldError{Field: "handle", Message: "handle must be in gameName#tagLine form"})
	}

	if req.Tier != nil {
		if _, err := member.ParseTier(*req.Tier); err != nil {
			errs = append(errs, FieldError{Field: "tier", Message: "tier must be one of IRON, BRONZE, SILVER, GOLD, PLATINUM, EMERALD, DIAMOND, MASTER, GRANDMASTER, CHALLENGER"})
		}
	}

	return errs
}

func validHandle(h string) bool {
	i := strings.LastIndex(h, "#")
	return i > 0 && i < len(h)-1
}
