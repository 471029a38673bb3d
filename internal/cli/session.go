package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/expr"
)

// sessionSchemaVersion is bumped whenever the Session layout changes.
const sessionSchemaVersion uint16 = 1

// ErrSessionSchema is returned when a session file was written by an
// incompatible version.
var ErrSessionSchema = errors.New("unsupported session file version")

// Session is the persisted state of a REPL: its variables and limits.
// Values are stored as decimal strings.
type Session struct {
	Schema       uint16
	Vars         map[string]string
	MulThreshold int
	MaxDigits    int64
	Verify       bool
}

// NewSession captures env and the REPL settings.
func NewSession(env expr.Env, mulThreshold int, maxDigits int64, verify bool) *Session {
	s := &Session{
		Schema:       sessionSchemaVersion,
		Vars:         make(map[string]string, len(env)),
		MulThreshold: mulThreshold,
		MaxDigits:    maxDigits,
		Verify:       verify,
	}
	for name, v := range env {
		s.Vars[name] = v.String()
	}
	return s
}

// Env rebuilds the variables of the session. The values are owned by the
// caller.
func (s *Session) Env() (expr.Env, error) {
	env := make(expr.Env, len(s.Vars))
	names := make([]string, 0, len(s.Vars))
	for name := range s.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := bigint.New()
		if err := v.SetString(s.Vars[name]); err != nil {
			v.Release()
			releaseEnv(env)
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		env[name] = v
	}
	return env, nil
}

// SaveSession writes s to path atomically.
func SaveSession(path string, s *Session) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".bigcalc-session-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(s); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadSession reads a session written by SaveSession.
func LoadSession(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Session
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", path, err)
	}
	if s.Schema != sessionSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSessionSchema, s.Schema)
	}
	return &s, nil
}

func releaseEnv(env expr.Env) {
	for name, v := range env {
		v.Release()
		delete(env, name)
	}
}
