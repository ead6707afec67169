package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks enum membership and link format on a Capability or Bundle.
// Names are deliberately not required; empty drafts may be saved.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate record: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid record: %s", strings.Join(msgs, "; "))
}

// DuplicateTierMemberships returns bundle ids listed in more than one tier of
// the capability, mapped to the indices of the tiers that list them. The
// resolver picks the first such tier, so this is reported but never rejected.
func DuplicateTierMemberships(c Capability) map[string][]int {
	if c.TierStructure == nil {
		return nil
	}

	seen := make(map[string][]int)
	for i, tier := range c.TierStructure.Tiers {
		for _, id := range tier.IncludedInBundleIDs {
			seen[id] = append(seen[id], i)
		}
	}

	dups := make(map[string][]int)
	for id, idx := range seen {
		if len(idx) > 1 {
			dups[id] = idx
		}
	}
	if len(dups) == 0 {
		return nil
	}
	return dups
}
