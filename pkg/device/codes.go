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
	"fmt"
	"strings"
)

// Range is the analog input range in volts (bipolar)
type Range int

const (
	Range10V Range = 10
	Range5V  Range = 5
	Range2V  Range = 2
	Range1V  Range = 1
)

var rangeCodes = map[Range]uint8{
	Range10V: 0,
	Range5V:  1,
	Range2V:  2,
	Range1V:  3,
}

// ParseRange ...
func ParseRange(volts int) (Range, error) {
	r := Range(volts)
	if _, ok := rangeCodes[r]; !ok {
		return 0, ErrConfiguration{What: fmt.Sprintf("wrong range %d V. Must be one of 10, 5, 2, 1", volts)}
	}
	return r, nil
}

// Code returns the value written to the board
func (r Range) Code() uint8 {
	return rangeCodes[r]
}

func (r Range) String() string {
	return fmt.Sprintf("+/-%dV", int(r))
}

// Mode is the analog input reference mode
type Mode string

const (
	ModeSingleEnded  Mode = "SINGLE_ENDED"
	ModeDifferential Mode = "DIFFERENTIAL"
)

var modeCodes = map[Mode]uint8{
	ModeSingleEnded:  0,
	ModeDifferential: 1,
}

// ParseMode accepts SINGLE_END as an alias of SINGLE_ENDED
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(s))
	if m == "SINGLE_END" {
		m = ModeSingleEnded
	}
	if _, ok := modeCodes[m]; !ok {
		return "", ErrConfiguration{What: fmt.Sprintf("wrong mode %q. Must be one of SINGLE_ENDED, DIFFERENTIAL", s)}
	}
	return m, nil
}

func (m Mode) Code() uint8 {
	return modeCodes[m]
}

// TriggerMode is the edge or level the external trigger input reacts to.
// TriggerNone means the scan starts without waiting for a trigger.
type TriggerMode string

const (
	TriggerNone        TriggerMode = "NONE"
	TriggerRisingEdge  TriggerMode = "RISING_EDGE"
	TriggerFallingEdge TriggerMode = "FALLING_EDGE"
	TriggerActiveHigh  TriggerMode = "ACTIVE_HIGH"
	TriggerActiveLow   TriggerMode = "ACTIVE_LOW"
)

var triggerCodes = map[TriggerMode]uint8{
	TriggerRisingEdge:  0,
	TriggerFallingEdge: 1,
	TriggerActiveHigh:  2,
	TriggerActiveLow:   3,
}

// ParseTriggerMode ...
func ParseTriggerMode(s string) (TriggerMode, error) {
	t := TriggerMode(strings.ToUpper(s))
	if t == TriggerNone {
		return t, nil
	}
	if _, ok := triggerCodes[t]; !ok {
		return "", ErrConfiguration{
			What: fmt.Sprintf("wrong trigger mode %q. Must be one of NONE, RISING_EDGE, FALLING_EDGE, ACTIVE_HIGH, ACTIVE_LOW", s),
		}
	}
	return t, nil
}

// Code returns the board code and false for TriggerNone which has no code
func (t TriggerMode) Code() (uint8, bool) {
	code, ok := triggerCodes[t]
	return code, ok
}
