/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package device

import (
	"errors"
	"reflect"
	"testing"
)

type writeRecorder struct {
	calls []string
	codes []uint8
	fail  error
}

func (w *writeRecorder) record(name string, code uint8) error {
	if w.fail != nil {
		return w.fail
	}
	w.calls = append(w.calls, name)
	w.codes = append(w.codes, code)
	return nil
}

func (w *writeRecorder) ModeWrite(code uint8) error        { return w.record("mode", code) }
func (w *writeRecorder) RangeWrite(code uint8) error       { return w.record("range", code) }
func (w *writeRecorder) TriggerModeWrite(code uint8) error { return w.record("trigger", code) }
func (w *writeRecorder) ScanStart(uint8, uint32, float64, OptionFlags) error {
	return nil
}
func (w *writeRecorder) ScanRead(uint32, float64) ([]float64, error) { return nil, nil }
func (w *writeRecorder) ScanStop() error                             { return nil }
func (w *writeRecorder) ScanCleanup() error                          { return nil }

func TestControllerCodes(t *testing.T) {
	hw := &writeRecorder{}
	c := NewController(hw)
	for _, v := range []int{10, 5, 2, 1} {
		if err := c.SetRange(v); err != nil {
			t.Fatalf("SetRange(%d) error: %v", v, err)
		}
	}
	if err := c.SetMode("SINGLE_ENDED"); err != nil {
		t.Fatalf("SetMode error: %v", err)
	}
	if err := c.SetMode("differential"); err != nil {
		t.Fatalf("SetMode error: %v", err)
	}
	if err := c.SetTrigger("FALLING_EDGE"); err != nil {
		t.Fatalf("SetTrigger error: %v", err)
	}
	wantCalls := []string{"range", "range", "range", "range", "mode", "mode", "trigger"}
	wantCodes := []uint8{0, 1, 2, 3, 0, 1, 1}
	if !reflect.DeepEqual(hw.calls, wantCalls) || !reflect.DeepEqual(hw.codes, wantCodes) {
		t.Fatalf("calls = %v codes = %v, want %v %v", hw.calls, hw.codes, wantCalls, wantCodes)
	}
	want := RangeModeState{Range: Range1V, Mode: ModeDifferential, Trigger: TriggerFallingEdge}
	if c.State() != want {
		t.Fatalf("State() = %+v, want %+v", c.State(), want)
	}
}

func TestControllerSkipsUnchanged(t *testing.T) {
	hw := &writeRecorder{}
	c := NewController(hw)
	for i := 0; i < 3; i++ {
		if err := c.Apply(Range5V, ModeSingleEnded, TriggerRisingEdge); err != nil {
			t.Fatalf("Apply error: %v", err)
		}
	}
	if len(hw.calls) != 3 {
		t.Fatalf("hardware writes = %v, want one per setting", hw.calls)
	}
}

func TestControllerRejectsBeforeWrite(t *testing.T) {
	hw := &writeRecorder{}
	c := NewController(hw)
	var cfgErr ErrConfiguration
	if err := c.SetRange(3); !errors.As(err, &cfgErr) {
		t.Fatalf("SetRange(3) error = %v", err)
	}
	if err := c.SetMode("PSEUDO_DIFF"); !errors.As(err, &cfgErr) {
		t.Fatalf("SetMode error = %v", err)
	}
	if err := c.SetTrigger("BOTH_EDGES"); !errors.As(err, &cfgErr) {
		t.Fatalf("SetTrigger error = %v", err)
	}
	if len(hw.calls) != 0 {
		t.Fatalf("hardware was written: %v", hw.calls)
	}
}

func TestControllerTriggerNone(t *testing.T) {
	hw := &writeRecorder{}
	c := NewController(hw)
	if err := c.SetTrigger("NONE"); err != nil {
		t.Fatalf("SetTrigger(NONE) error: %v", err)
	}
	if len(hw.calls) != 0 {
		t.Fatalf("NONE must not be written to the board: %v", hw.calls)
	}
}

func TestControllerWriteFailureKeepsState(t *testing.T) {
	hw := &writeRecorder{}
	c := NewController(hw)
	if err := c.SetRange(10); err != nil {
		t.Fatalf("SetRange error: %v", err)
	}
	hw.fail = errors.New("spi timeout")
	err := c.SetRange(2)
	var hwErr ErrHardware
	if !errors.As(err, &hwErr) || hwErr.Step != "range_write" {
		t.Fatalf("SetRange error = %v, want ErrHardware at range_write", err)
	}
	if c.State().Range != Range10V {
		t.Fatalf("range changed to %s after failed write", c.State().Range)
	}
}

func TestControllerStateDuringApply(t *testing.T) {
	c := NewController(&writeRecorder{})
	if s := c.State(); s.Range != 0 || s.Mode != "" || s.Trigger != TriggerNone {
		t.Fatalf("initial state = %+v", s)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			r := Range10V
			if i%2 == 1 {
				r = Range2V
			}
			if err := c.Apply(r, ModeSingleEnded, TriggerFallingEdge); err != nil {
				t.Errorf("Apply error: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 100; i++ {
		s := c.State()
		if s.Range != 0 && s.Range != Range10V && s.Range != Range2V {
			t.Fatalf("state range = %v", s.Range)
		}
	}
	<-done
	if s := c.State(); s.Range != Range2V || s.Mode != ModeSingleEnded || s.Trigger != TriggerFallingEdge {
		t.Fatalf("final state = %+v", s)
	}
}
