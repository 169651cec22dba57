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
	"sync"

	"jinr.ru/greenlab/go-mcc128/pkg/log"
)

// RangeModeState is what was last written to the board.
// Range and Mode are zero until first written.
type RangeModeState struct {
	Range   Range       `json:"range,omitempty"`
	Mode    Mode        `json:"mode,omitempty"`
	Trigger TriggerMode `json:"trigger"`
}

// Controller keeps the input range, input mode and trigger mode of a connected
// board. Values are written to the board only when they change.
// State may be called while a scan applies new values.
type Controller struct {
	hw Hardware

	mu    sync.Mutex
	state RangeModeState

	rangeApplied   bool
	modeApplied    bool
	triggerApplied bool
}

func NewController(hw Hardware) *Controller {
	return &Controller{
		hw: hw,
		state: RangeModeState{
			Trigger: TriggerNone,
		},
	}
}

// State returns a copy of the applied state
func (c *Controller) State() RangeModeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetRange ...
func (c *Controller) SetRange(volts int) error {
	r, err := ParseRange(volts)
	if err != nil {
		return err
	}
	return c.applyRange(r)
}

// SetMode ...
func (c *Controller) SetMode(mode string) error {
	m, err := ParseMode(mode)
	if err != nil {
		return err
	}
	return c.applyMode(m)
}

// SetTrigger ...
func (c *Controller) SetTrigger(mode string) error {
	t, err := ParseTriggerMode(mode)
	if err != nil {
		return err
	}
	return c.applyTrigger(t)
}

// Apply writes whatever differs from the current state.
// Values must come from ParseRange, ParseMode and ParseTriggerMode.
func (c *Controller) Apply(r Range, m Mode, t TriggerMode) error {
	if err := c.applyRange(r); err != nil {
		return err
	}
	if err := c.applyMode(m); err != nil {
		return err
	}
	return c.applyTrigger(t)
}

func (c *Controller) applyRange(r Range) error {
	if _, ok := rangeCodes[r]; !ok {
		return ErrConfiguration{What: "range not validated: " + r.String()}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rangeApplied && c.state.Range == r {
		return nil
	}
	log.Debug("Writing input range: %s code: %d", r, r.Code())
	if err := c.hw.RangeWrite(r.Code()); err != nil {
		return ErrHardware{Step: "range_write", Err: err}
	}
	c.state.Range = r
	c.rangeApplied = true
	return nil
}

func (c *Controller) applyMode(m Mode) error {
	if _, ok := modeCodes[m]; !ok {
		return ErrConfiguration{What: "mode not validated: " + string(m)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modeApplied && c.state.Mode == m {
		return nil
	}
	log.Debug("Writing input mode: %s code: %d", m, m.Code())
	if err := c.hw.ModeWrite(m.Code()); err != nil {
		return ErrHardware{Step: "mode_write", Err: err}
	}
	c.state.Mode = m
	c.modeApplied = true
	return nil
}

func (c *Controller) applyTrigger(t TriggerMode) error {
	code, ok := t.Code()
	if !ok && t != TriggerNone {
		return ErrConfiguration{What: "trigger mode not validated: " + string(t)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.triggerApplied && c.state.Trigger == t {
		return nil
	}
	// NONE only means the scan is started without EXTTRIGGER
	if ok {
		log.Debug("Writing trigger mode: %s code: %d", t, code)
		if err := c.hw.TriggerModeWrite(code); err != nil {
			return ErrHardware{Step: "trigger_mode_write", Err: err}
		}
	}
	c.state.Trigger = t
	c.triggerApplied = true
	return nil
}
