package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/AdamBromiley/basil/internal/cheat"
	"github.com/AdamBromiley/basil/internal/picker"
	"github.com/AdamBromiley/basil/internal/tracing"
)

// cheatPointerFlag is the hidden flag a bare -c or --cheat is rewritten to.
const cheatPointerFlag = "cheat-pointer"

type pickOptions struct {
	cheat    string
	cheatSet bool
	pointer  bool
}

// letter returns the requested cheat letter, zero to capture one, and whether cheats
// are enabled at all.
func (o pickOptions) letter() (byte, bool, error) {
	switch {
	case o.cheatSet && len(o.cheat) != 1:
		return 0, false, &usageError{msg: "-c: Failed to parse argument"}
	case o.cheatSet:
		return o.cheat[0], true, nil
	case o.pointer:
		return 0, true, nil
	default:
		return 0, false, nil
	}
}

// pick loads path and prints one "firstname surname" line.
func (a *app) pick(ctx context.Context, path string, opts pickOptions) error {
	c, cheating, err := opts.letter()
	if err != nil {
		return err
	}

	tbl, err := a.load(ctx, path, a.cfg.Header)
	if err != nil {
		return err
	}

	p, err := picker.New(tbl, a.rng)
	if err != nil {
		return &userError{msg: "CSV records are not firstname,surname", err: err}
	}

	var name picker.Name
	mode := "random"
	err = tracing.Run(ctx, a.tracer, "pick", func(ctx context.Context) error {
		if !cheating {
			name, err = p.Random()
			return err
		}

		src := &deviceLetters{app: a}
		var cheated bool
		name, cheated, err = p.Cheat(ctx, c, src)
		if cheated {
			mode = "cheat"
		}
		return err
	}, attribute.Bool("cheat", cheating))
	if err != nil {
		return err
	}

	a.metrics.RecordPick(mode)
	a.log.Info("picked name", zap.String("mode", mode), zap.Int("records", tbl.RecordCount()))

	_, err = fmt.Fprintln(a.stdout, name)
	return err
}

// deviceLetters captures a letter from the configured pointing device.
type deviceLetters struct {
	app *app
}

func (d *deviceLetters) Capture(ctx context.Context) (byte, bool, error) {
	cfg := d.app.cfg.Cheat
	dev, err := d.app.openDevice(cfg.Device)
	if err != nil {
		return 0, false, err
	}
	defer dev.Close()

	// Closing the device unblocks a pending read when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { dev.Close() })
	defer stop()

	capturer := &cheat.Capturer{
		Device:  dev,
		Display: cheat.Point{X: cfg.Display.Width, Y: cfg.Display.Height},
	}
	if scr, err := d.app.openScreen(); err != nil {
		d.app.log.Info("no X display, tracking pointer from the display centre", zap.Error(err))
	} else {
		defer scr.Close()
		capturer.Screen = scr
	}
	letter, ok, err := capturer.Capture(ctx)
	if err != nil {
		return 0, false, err
	}
	d.app.log.Debug("captured letter", zap.Bool("ok", ok), zap.String("letter", string(rune(letter))))
	return letter, ok, nil
}
