package uplink

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"time"
)

// State is the pairing state persisted across runs.
type State struct {
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// tokenAlphabet: pairing codes are uppercase letters only, so they can
// be read over the phone and typed into the web UI.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const tokenLen = 6

// LoadState reads the pairing state file. A missing file is not an
// error; it returns a zero State.
func LoadState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file is treated like a missing one; a fresh
		// token gets minted and saved over it.
		return State{}, nil
	}
	return st, nil
}

// SaveState persists the pairing state atomically (temp file + rename).
func SaveState(path string, st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// GenerateToken mints a fresh pairing code.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, tokenLen)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out), nil
}

// ValidToken reports whether a stored token is a well-formed pairing
// code: exactly six uppercase letters.
func ValidToken(token string) bool {
	if len(token) != tokenLen {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < 'A' || token[i] > 'Z' {
			return false
		}
	}
	return true
}

// ensureToken loads the persisted token or mints and saves a new one.
// created reports whether this run minted the token.
func ensureToken(path string) (token string, created bool, err error) {
	st, err := LoadState(path)
	if err != nil {
		return "", false, err
	}
	if ValidToken(st.Token) {
		return st.Token, false, nil
	}

	token, err = GenerateToken()
	if err != nil {
		return "", false, err
	}
	st.Token = token
	st.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := SaveState(path, st); err != nil {
		return "", false, err
	}
	return token, true, nil
}
