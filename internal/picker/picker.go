// Package picker draws a random full name from a loaded firstname,surname table.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/AdamBromiley/basil"
)

var (
	// ErrNotNames is returned for tables whose records are not firstname,surname.
	ErrNotNames = errors.New("picker: CSV records are not firstname,surname")
	// ErrNoRecords is returned for tables without data records.
	ErrNoRecords = errors.New("picker: CSV has no records")
)

// Name is a drawn full name.
type Name struct {
	First   string
	Surname string
}

func (n Name) String() string {
	return n.First + " " + n.Surname
}

// Drawer yields uniformly distributed integers in [1, n].
type Drawer interface {
	Intn(n int) (int, error)
}

// LetterSource yields a letter chosen by the user. The boolean is false when no letter
// was chosen.
type LetterSource interface {
	Capture(ctx context.Context) (byte, bool, error)
}

// Picker draws names from a table.
type Picker struct {
	table *basil.Table
	rng   Drawer
}

// New returns a Picker over t. t must have exactly two fields per record.
func New(t *basil.Table, rng Drawer) (*Picker, error) {
	if t.FieldCount() != 2 {
		return nil, fmt.Errorf("%w: found %d fields", ErrNotNames, t.FieldCount())
	}
	return &Picker{table: t, rng: rng}, nil
}

// Random draws any data record.
func (p *Picker) Random() (Name, error) {
	count := p.table.RecordCount()
	if count < 1 {
		return Name{}, ErrNoRecords
	}
	n, err := p.rng.Intn(count)
	if err != nil {
		return Name{}, fmt.Errorf("picker: generating random number: %w", err)
	}
	rec, ok := p.table.Record(n)
	if !ok {
		return Name{}, fmt.Errorf("picker: getting CSV record %d", n)
	}
	return Name{First: rec[0], Surname: rec[1]}, nil
}

// Cheat draws a record whose first name begins with c, compared without regard to
// case. When c is zero the letter is captured from src. It falls back to Random when no
// letter is chosen or no first name matches; the returned boolean reports whether the
// cheat took effect.
func (p *Picker) Cheat(ctx context.Context, c byte, src LetterSource) (Name, bool, error) {
	if c == 0 {
		if src == nil {
			return Name{}, false, errors.New("picker: no letter source")
		}
		letter, ok, err := src.Capture(ctx)
		if err != nil {
			return Name{}, false, err
		}
		if !ok {
			name, err := p.Random()
			return name, false, err
		}
		c = letter
	}

	count := p.table.CountPrefix(c)
	if count < 1 {
		name, err := p.Random()
		return name, false, err
	}

	n, err := p.rng.Intn(count)
	if err != nil {
		return Name{}, false, fmt.Errorf("picker: generating random number: %w", err)
	}
	rec, ok := p.table.SelectPrefix(n, c)
	if !ok {
		return Name{}, false, fmt.Errorf("picker: getting CSV record %d starting with %q", n, c)
	}
	return Name{First: rec[0], Surname: rec[1]}, true, nil
}
