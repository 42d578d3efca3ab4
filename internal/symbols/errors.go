package symbols

import (
	"errors"
	"fmt"
)

// ErrMapLoad matches every *LoadError via errors.Is.
var ErrMapLoad = errors.New("symbol map load failed")

// LoadError reports why a map source could not be turned into a Map.
// Source names where the data came from (embedded, a path or a URL); Key is
// the offending entry when the failure is tied to one.
type LoadError struct {
	Source string
	Key    string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("symbols: load %s: entry %q: %v", e.Source, e.Key, e.Err)
	}
	return fmt.Sprintf("symbols: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMapLoad) match any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrMapLoad }
