package domain

import "strings"

// UpdateMode selects how fields omitted from an update are treated.
type UpdateMode int

const (
	// UpdateReplace overwrites every mutable field; omitted fields become empty.
	UpdateReplace UpdateMode = iota
	// UpdateMerge keeps the stored value of omitted fields.
	UpdateMerge
)

// ParseUpdateMode resolves "replace" or "merge". The empty string yields def.
func ParseUpdateMode(s string, def UpdateMode) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "replace":
		return UpdateReplace, nil
	case "merge":
		return UpdateMerge, nil
	default:
		return def, NewValidationError("mode", "must be replace or merge")
	}
}

func (m UpdateMode) String() string {
	if m == UpdateMerge {
		return "merge"
	}

	return "replace"
}

func (m UpdateMode) pick(current string, supplied *string) string {
	if supplied != nil {
		return *supplied
	}

	if m == UpdateMerge {
		return current
	}

	return ""
}
