package tileview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `json:"action" yaml:"action"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	URL    string  `json:"url,omitempty" yaml:"url,omitempty"`
	X      float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64 `json:"y,omitempty" yaml:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty" yaml:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty" yaml:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty" yaml:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty" yaml:"toY,omitempty"`
	Delta  float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
	Scale  float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Millis int     `json:"ms,omitempty" yaml:"ms,omitempty"`
	Frames int     `json:"frames,omitempty" yaml:"frames,omitempty"`
}

func (st testStep) duration() time.Duration {
	return time.Duration(st.Millis) * time.Millisecond
}

// testScript is the top-level structure of a test script.
type testScript struct {
	Steps []testStep `json:"steps" yaml:"steps"`
}

// scriptTarget is what a TestRunner drives. *App implements it.
type scriptTarget interface {
	pendingInjections() int
	Screenshot(label string)
	InjectPress(x, y float64)
	InjectRelease(x, y float64)
	InjectDrag(fromX, fromY, toX, toY float64, frames int)
	InjectWheel(x, y, delta float64)
	Viewer() *Viewer
}

// TestRunner sequences injected input, view commands and screenshots across
// frames for automated visual testing.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	return newTestRunner(script)
}

// LoadTestScriptYAML parses a YAML test script.
func LoadTestScriptYAML(yamlData []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(yamlData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	return newTestRunner(script)
}

func newTestRunner(script testScript) (*TestRunner, error) {
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "click", "drag", "wheel", "rotate", "fit", "zoom", "image", "wait":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(t scriptTarget) {
	if r.done {
		return
	}
	if t.pendingInjections() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	if err := r.run(t, st); err != nil {
		Logger().Warn("tileview: test step failed", "step", r.cursor-1, "action", st.Action, "error", err)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && t.pendingInjections() == 0 {
		r.done = true
	}
}

func (r *TestRunner) run(t scriptTarget, st testStep) error {
	switch st.Action {
	case "screenshot":
		t.Screenshot(st.Label)
	case "click":
		t.InjectPress(st.X, st.Y)
		t.InjectRelease(st.X, st.Y)
	case "drag":
		t.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		t.InjectWheel(st.X, st.Y, st.Delta)
	case "rotate":
		return t.Viewer().Rotate(st.duration())
	case "fit":
		return t.Viewer().ZoomToFit(st.duration())
	case "zoom":
		return t.Viewer().Zoom(st.Scale, st.duration())
	case "image":
		return t.Viewer().SetImageURL(context.Background(), st.URL)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}
	return nil
}
