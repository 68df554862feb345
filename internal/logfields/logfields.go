package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCommand    = "command"
	KeyDir        = "dir"
	KeyExitCode   = "exit_code"
	KeyPID        = "pid"
	KeyOutcome    = "outcome"
	KeyToken      = "token"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func PID(pid int) slog.Attr           { return slog.Int(KeyPID, pid) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Token(t string) slog.Attr        { return slog.String(KeyToken, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
