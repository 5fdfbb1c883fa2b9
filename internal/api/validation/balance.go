package validation

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateBalanceRequest parses the member ids of a balance request. Count
// and duplicate rules belong to the balance engine.
func ValidateBalanceRequest(memberIDs []string) ([]uuid.UUID, []FieldError) {
	if memberIDs == nil {
		return nil, []FieldError{{Field: "memberIds", Message: "memberIds is required"}}
	}

	var errs []FieldError
	ids := make([]uuid.UUID, 0, len(memberIDs))
	for i, raw := range memberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: fmt.Sprintf("memberIds[%d]", i), Message: "must be a valid UUID"})
			continue
		}
		ids = append(ids, id)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return ids, nil
}
