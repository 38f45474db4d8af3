package shared

import (
	"fmt"
	"sort"
	"strings"
)

// FieldKey identifies a form field in a validation result. Line-item fields
// are built through ItemKey so the index encoding stays in one place.
type FieldKey string

// ItemKey returns the key for a line-item field, rendered as
// item_<index>_<field>.
func ItemKey(index int, field string) FieldKey {
	return FieldKey(fmt.Sprintf("item_%d_%s", index, field))
}

// FieldErrors maps field keys to a single human-readable message each.
// Local validation and upstream validation failures merge into the same
// structure so callers display one unified set of messages.
type FieldErrors map[FieldKey]string

// Add records a message for a field. The first message wins; later
// messages for the same field are dropped, matching how upstream
// responses are collapsed to one message per field.
func (fe FieldErrors) Add(key FieldKey, message string) {
	if _, ok := fe[key]; ok {
		return
	}
	fe[key] = message
}

// Merge folds another error set into this one, first message per field
// winning.
func (fe FieldErrors) Merge(other FieldErrors) {
	for key, msg := range other {
		fe.Add(key, msg)
	}
}

// HasErrors reports whether any field carries a message.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Error implements error so a FieldErrors can travel through error
// returns. Keys are sorted for stable output.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(fe))
	for key := range fe {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+fe[FieldKey(key)])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
