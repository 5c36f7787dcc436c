package audit

// Phase identifies what an audit entry records.
type Phase string

const (
	PhaseModeInit           Phase = "mode_init"
	PhaseStart              Phase = "start"
	PhaseSuccess            Phase = "success"
	PhaseError              Phase = "error"
	PhaseDeniedPermission   Phase = "denied_permission"
	PhaseDeniedConfirmation Phase = "denied_confirmation"
)

// Entry is one line in the hash-chained JSONL audit log. Entries are
// write-once: never edited or deleted after creation, ordered by append.
// The redacted input is a map, which json.Marshal emits with sorted keys,
// so hashing stays reproducible.
type Entry struct {
	Timestamp    string         `json:"ts"`
	Phase        Phase          `json:"phase"`
	Operation    string         `json:"operation,omitempty"`
	InvocationID string         `json:"invocation_id,omitempty"`
	Mode         string         `json:"mode,omitempty"`
	PermittedOps int            `json:"permitted_ops,omitempty"`
	Input        map[string]any `json:"input,omitempty"`
	Detail       string         `json:"detail,omitempty"`
	Error        string         `json:"error,omitempty"`
	DurationMs   int64          `json:"duration_ms,omitempty"`
	PrevHash     string         `json:"prev_hash"`
}
