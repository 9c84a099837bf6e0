package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/AdamBromiley/basil"
	"github.com/AdamBromiley/basil/internal/cheat"
	"github.com/AdamBromiley/basil/internal/config"
	"github.com/AdamBromiley/basil/internal/input"
	"github.com/AdamBromiley/basil/internal/logger"
	"github.com/AdamBromiley/basil/internal/metrics"
	"github.com/AdamBromiley/basil/internal/picker"
	"github.com/AdamBromiley/basil/internal/random"
	"github.com/AdamBromiley/basil/internal/tracing"
)

// app carries everything a command needs, including the program name used to prefix
// diagnostics.
type app struct {
	prog   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// openDevice opens the pointing device for cheat capture.
	openDevice func(path string) (io.ReadCloser, error)
	// openScreen connects to the display for pointer queries.
	openScreen func() (screen, error)
	rng        picker.Drawer

	configPath string
	cfg        *config.Config
	log        *zap.Logger
	metrics    *metrics.Collector
	traces     *tracing.Provider
	tracer     trace.Tracer
}

func newApp(prog string, stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		prog:   prog,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		openDevice: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		openScreen: dialScreen,
		rng:        random.New(nil),
	}
}

// screen is a display connection used while capturing a cheat letter.
type screen interface {
	cheat.Screen
	io.Closer
}

// dialScreen connects to the X display named by $DISPLAY.
func dialScreen() (screen, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, errNoDisplayEnv
	}
	x, err := cheat.DialX11("")
	if err != nil {
		return nil, err
	}
	return x, nil
}

var errNoDisplayEnv = errors.New("DISPLAY is not set")

// userError is a failure reported to the user as msg, keeping the cause for logs and
// errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// setup resolves configuration and builds the logger, metrics and tracing.
func (a *app) setup(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath, flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	l, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return err
	}
	a.log = logger.ForProgram(l, a.prog)

	a.metrics = metrics.New()

	a.traces, err = tracing.New(tracing.Config{
		Enabled:        cfg.Trace.Enabled,
		ServiceName:    a.prog,
		ServiceVersion: version,
		Output:         a.stderr,
	})
	if err != nil {
		return err
	}
	a.tracer = a.traces.Tracer("github.com/AdamBromiley/basil/cmd/namepick")
	return nil
}

// teardown flushes telemetry. Failures are logged, never returned, so they cannot mask
// the command's own result.
func (a *app) teardown(ctx context.Context) {
	if a.traces != nil {
		if err := a.traces.Shutdown(ctx); err != nil {
			a.log.Warn("flushing traces", zap.Error(err))
		}
	}
	if a.metrics != nil && a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.log.Warn("writing metrics textfile", zap.String("path", a.cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// load reads the table named by path, closing the stream whatever the outcome.
func (a *app) load(ctx context.Context, path string, header bool) (*basil.Table, error) {
	src, err := input.Open(path, a.stdin)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var tbl *basil.Table
	err = tracing.Run(ctx, a.tracer, "load", func(context.Context) error {
		l := basil.Loader{HasHeader: header, MaxSize: a.cfg.MaxInputBytes}
		done := a.metrics.StartLoad()
		var err error
		tbl, err = l.Load(src)
		done(tbl, err)
		return err
	}, attribute.String("input", src.Name), attribute.String("compression", string(src.Compression)))
	if err != nil {
		kind := basil.Classify(err)
		a.log.Warn("load failed", zap.String("input", src.Name), zap.Stringer("kind", kind), zap.Error(err))
		return nil, &userError{msg: loadFailureMessage(err, kind), err: err}
	}

	a.log.Debug("loaded CSV",
		zap.String("input", src.Name),
		zap.String("compression", string(src.Compression)),
		zap.Int("fields", tbl.FieldCount()),
		zap.Int("records", tbl.RecordCount()),
		zap.Int("bytes", tbl.Size()),
	)
	return tbl, nil
}

func loadFailureMessage(err error, kind basil.Failure) string {
	switch kind {
	case basil.FailureFormat:
		return "CSV format incorrect (it must comply to RFC 7111)"
	case basil.FailureStructure:
		return "Unknown error processing CSV"
	case basil.FailureAllocation:
		return "Unknown memory error loading CSV"
	case basil.FailureIO:
		if errors.Is(err, basil.ErrEmptyInput) {
			return "No CSV input"
		}
		return fmt.Sprintf("Error reading CSV: %v", errors.Unwrap(err))
	default:
		return "Unknown execution error loading CSV"
	}
}
