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
)

// ErrConfiguration returned when requested settings can not be turned into a valid scan.
// Detected before any hardware call is made.
type ErrConfiguration struct {
	What string
}

func (e ErrConfiguration) Error() string {
	return fmt.Sprintf("Configuration error: %s", e.What)
}

// ErrRate returned when a sampling or external clock rate is unusable
type ErrRate struct {
	What     string
	Rate     float64
	External bool
}

func (e ErrRate) Error() string {
	if e.External {
		return fmt.Sprintf("External clock rate error: %s: %g", e.What, e.Rate)
	}
	return fmt.Sprintf("Sampling rate error: %s: %g", e.What, e.Rate)
}

// ErrHardware wraps a failure reported by the board driver
type ErrHardware struct {
	Step string
	Err  error
}

func (e ErrHardware) Error() string {
	return fmt.Sprintf("Hardware error at %s: %s", e.Step, e.Err)
}

func (e ErrHardware) Unwrap() error {
	return e.Err
}
