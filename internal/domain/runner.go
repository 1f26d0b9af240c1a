package domain

import (
	"context"
	"fmt"
	"log/slog"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
	pkg "vpiscope.dev/pkg/vpiscope/pkg"
)

// RunConfig drives a Runner. Clock names a scalar that is toggled every
// Period ticks; Watch names objects that get a value-change callback.
type RunConfig struct {
	Steps  int
	Clock  string
	Period uint64
	Watch  []string
}

// RunSummary reports a finished run.
type RunSummary struct {
	Steps      int
	Time       uint64
	Deliveries map[string]int
}

// Runner is a minimal host simulation loop over an engine.
type Runner interface {
	Run(ctx context.Context, cfg RunConfig) (RunSummary, error)
}

type runner struct {
	engine  Engine
	clock   adapter.Stepper
	journal pkg.Journal[m.Delivery]
}

// NewRunner constructs a Runner. journal may be nil.
func NewRunner(engine Engine, clock adapter.Stepper, journal pkg.Journal[m.Delivery]) Runner {
	return &runner{engine: engine, clock: clock, journal: journal}
}

func (r *runner) Run(ctx context.Context, cfg RunConfig) (RunSummary, error) {
	e := r.engine
	summary := RunSummary{Deliveries: make(map[string]int, len(cfg.Watch))}

	if cfg.Period == 0 {
		cfg.Period = 1
	}

	watches, err := r.watch(cfg.Watch, summary.Deliveries)

	defer func() {
		for _, w := range watches {
			if !w.cb.IsNull() {
				e.RemoveCb(w.cb)
			}

			e.ReleaseHandle(w.obj)
		}
	}()

	if err != nil {
		return summary, err
	}

	var clk m.Handle
	if cfg.Clock != "" {
		if clk = e.HandleByName(cfg.Clock, 0); clk.IsNull() {
			return summary, errOf(e, cfg.Clock)
		}
		defer e.ReleaseHandle(clk)
	}

	e.CallCallbacks(m.CbStartOfSimulation)

	for summary.Steps < cfg.Steps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if !clk.IsNull() {
			if err := r.toggle(clk, cfg.Period); err != nil {
				return summary, err
			}
		}

		next, ok := r.clock.NextTime()
		if !ok {
			break
		}

		r.step(next)
		summary.Steps++
	}

	e.CallCallbacks(m.CbEndOfSimulation)

	summary.Time = r.clock.Now()

	slog.Info("run finished", "steps", summary.Steps, "time", summary.Time)

	return summary, nil
}

// step advances to one time slot and runs the hooks in slot order.
func (r *runner) step(t uint64) {
	e := r.engine

	r.clock.Advance(t)
	e.CallValueCallbacks()
	e.CallTimedCallbacks()
	e.CallCallbacks(m.CbReadWriteSynch)
	e.CallCallbacks(m.CbReadOnlySynch)
	e.CallCallbacks(m.CbNextSimTime)
}

// toggle schedules the inverse of the clock's current value one period
// from now.
func (r *runner) toggle(clk m.Handle, period uint64) error {
	e := r.engine

	cur, err := e.GetValue(clk, m.ScalarVal)
	if err != nil {
		return err
	}

	next := m.Value{Format: m.ScalarVal, Scalar: m.Scalar1}
	if cur.Scalar == m.Scalar1 {
		next.Scalar = m.Scalar0
	}

	delay := m.NewSimTime(period)

	_, err = e.PutValue(clk, next, &delay, m.TransportDelay)

	return err
}

// watched is a value-change callback and the object handle it reports.
// The object handle stays live until the callback is removed.
type watched struct {
	obj m.Handle
	cb  m.Handle
}

func (r *runner) watch(names []string, counts map[string]int) ([]watched, error) {
	e := r.engine

	var watches []watched

	for _, name := range names {
		h := e.HandleByName(name, 0)
		if h.IsNull() {
			return watches, errOf(e, name)
		}

		watches = append(watches, watched{obj: h})

		cb, err := e.RegisterCb(m.CbData{
			Reason: m.CbValueChange,
			Obj:    h,
			Value:  &m.Value{Format: m.BinStrVal},
			Func:   r.record(name, counts),
		})
		if err != nil {
			return watches, fmt.Errorf("watch %s: %w", name, err)
		}

		counts[name] = 0
		watches[len(watches)-1].cb = cb
	}

	return watches, nil
}

func (r *runner) record(name string, counts map[string]int) m.CbFunc {
	return func(cb *m.CbData) error {
		counts[name]++

		d := m.Delivery{Reason: cb.Reason.String(), Object: name}
		if cb.Time != nil {
			d.Time = cb.Time.Ticks()
		}

		if cb.Value != nil {
			d.Value = cb.Value.String()
		}

		slog.Debug("value change", "object", name, "time", d.Time, "value", d.Value)

		if r.journal == nil {
			return nil
		}

		return r.journal.Append(d)
	}
}
