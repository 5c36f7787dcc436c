package gate

import "github.com/obsgate/obsgate/internal/registry"

// ConfirmedKey is the input field callers must set to proceed with an
// irreversible operation.
const ConfirmedKey = "confirmed"

// NeedsConfirmation reports whether a descriptor requires the explicit
// confirmation flag before dispatch.
func NeedsConfirmation(d registry.Descriptor) bool {
	return d.Class == registry.ClassWrite && d.Destructiveness == registry.Irreversible
}

// Confirmed reports whether the raw input carries the boolean literal true
// under ConfirmedKey. The string "true", numbers, absence, and false all
// count as not confirmed; there is no coercion.
func Confirmed(input map[string]any) bool {
	v, ok := input[ConfirmedKey].(bool)
	return ok && v
}
