package script

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/slots/cmd/slots/internal/demo"
	"github.com/go-drift/slots/pkg/core"
	"github.com/go-drift/slots/pkg/hooks"
)

// StepError reports the step at which a replay stopped.
type StepError struct {
	Script string
	Index  int
	Kind   string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d (%s): %v", e.Script, e.Index+1, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// InstanceDump is the committed state of one instance after a replay.
type InstanceDump struct {
	Instance string `yaml:"instance"`
	Version  uint64 `yaml:"version"`
	Cells    []any  `yaml:"cells"`
}

// Result summarizes a successful replay.
type Result struct {
	Script    string
	Steps     int
	Instances []InstanceDump
	// Digest is an xxhash of the YAML encoded instance dumps. Two replays of
	// the same script produce the same digest.
	Digest uint64
}

// Runner replays scripts on a fresh scheduler per run.
type Runner struct {
	logger *zap.Logger
	opts   []core.SchedulerOption
}

// NewRunner creates a runner. opts are applied to every scheduler it creates.
func NewRunner(logger *zap.Logger, opts ...core.SchedulerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, opts: opts}
}

// Run replays s and returns the final state. The first failing step stops
// the replay with a *StepError.
func (r *Runner) Run(s *Script) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	logger := r.logger.With(zap.String("script", s.Name))
	sched := core.NewScheduler(append([]core.SchedulerOption{core.WithLogger(logger)}, r.opts...)...)

	var (
		instances []core.Element
		apply     func(Step) error
		err       error
	)
	switch s.Component {
	case ComponentTodo:
		var app *core.Instance[demo.TodoView]
		app, err = core.Mount(sched, "TodoApp", demo.TodoApp(s.Name, hooks.WithSeed(s.Seed...), hooks.WithIDFunc(sequentialIDs())))
		instances = append(instances, app)
		apply = func(step Step) error { return applyTodo(app, step) }
	case ComponentHover:
		var cards []*core.Instance[demo.CardView]
		cards, err = demo.HoverBoard(sched, s.Cards)
		for _, card := range cards {
			instances = append(instances, card)
		}
		apply = func(step Step) error { return applyHover(cards, step) }
	}
	defer func() {
		for _, inst := range slices.Backward(instances) {
			sched.Unmount(inst)
		}
	}()
	if err != nil {
		return nil, fmt.Errorf("%s: mount: %w", s.Name, err)
	}

	for i, step := range s.Steps {
		logger.Debug("step", zap.Int("index", i+1), zap.String("kind", step.Kind()))
		if err := apply(step); err != nil {
			return nil, &StepError{Script: s.Name, Index: i, Kind: step.Kind(), Err: err}
		}
		if err := sched.Flush(); err != nil {
			return nil, &StepError{Script: s.Name, Index: i, Kind: step.Kind(), Err: err}
		}
	}

	res := &Result{Script: s.Name, Steps: len(s.Steps)}
	for _, inst := range instances {
		res.Instances = append(res.Instances, dump(inst))
	}
	data, err := yaml.Marshal(res.Instances)
	if err != nil {
		return nil, fmt.Errorf("%s: encode state: %w", s.Name, err)
	}
	res.Digest = xxhash.Sum64(data)
	logger.Info("replay finished", zap.Int("steps", res.Steps), zap.Uint64("digest", res.Digest))
	return res, nil
}

type cellSource interface {
	core.Element
	Version() uint64
	CellValues() []any
}

func dump(e core.Element) InstanceDump {
	d := InstanceDump{Instance: e.Name()}
	if src, ok := e.(cellSource); ok {
		d.Version = src.Version()
		d.Cells = src.CellValues()
	}
	return d
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("todo-%d", n)
	}
}

func applyTodo(app *core.Instance[demo.TodoView], step Step) error {
	view := app.Output()
	switch {
	case step.Change != nil:
		view.Input.OnChange(*step.Change)
	case step.Submit:
		view.Submit()
	case step.Add != nil:
		view.AddItem(*step.Add)
	case step.Remove != nil:
		// Scripts name records by text; the first match is removed.
		for _, item := range view.Items {
			if item.Text == *step.Remove {
				view.RemoveItem(item.ID)
				return nil
			}
		}
		return fmt.Errorf("no item %q", *step.Remove)
	case step.Move == "up":
		view.MoveUp()
	case step.Move == "down":
		view.MoveDown()
	case step.Expect != nil:
		return expectTodo(view, *step.Expect)
	}
	return nil
}

func expectTodo(view demo.TodoView, want Expect) error {
	if want.Items != nil {
		got := make([]string, len(view.Items))
		for i, item := range view.Items {
			got[i] = item.Text
		}
		if !slices.Equal(got, want.Items) {
			return fmt.Errorf("items = %q, want %q", got, want.Items)
		}
	}
	if want.Input != nil && view.Input.Value != *want.Input {
		return fmt.Errorf("input = %q, want %q", view.Input.Value, *want.Input)
	}
	if want.Selected != nil && view.Selected != *want.Selected {
		return fmt.Errorf("selected = %d, want %d", view.Selected, *want.Selected)
	}
	if want.Hovering != nil || want.Visits != nil {
		return fmt.Errorf("hovering and visits apply to hover scripts")
	}
	return nil
}

func applyHover(cards []*core.Instance[demo.CardView], step Step) error {
	switch {
	case step.Enter != nil:
		cards[*step.Enter].Output().OnPointerEnter()
	case step.Leave != nil:
		cards[*step.Leave].Output().OnPointerLeave()
	case step.Expect != nil:
		return expectHover(cards, *step.Expect)
	}
	return nil
}

func expectHover(cards []*core.Instance[demo.CardView], want Expect) error {
	hovering := make([]bool, len(cards))
	visits := make([]int, len(cards))
	for i, card := range cards {
		hovering[i] = card.Output().Hovering
		visits[i] = card.Output().Visits
	}
	if want.Hovering != nil && !slices.Equal(hovering, want.Hovering) {
		return fmt.Errorf("hovering = %v, want %v", hovering, want.Hovering)
	}
	if want.Visits != nil && !slices.Equal(visits, want.Visits) {
		return fmt.Errorf("visits = %v, want %v", visits, want.Visits)
	}
	if want.Items != nil || want.Input != nil || want.Selected != nil {
		return fmt.Errorf("items, input and selected apply to todo scripts")
	}
	return nil
}
