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

package scan

import (
	"jinr.ru/greenlab/go-mcc128/pkg/device"
)

// Axis is the time axis of a dataset in seconds
type Axis struct {
	Start float64 `json:"start"`
	Step  float64 `json:"step"`
	Count uint32  `json:"count"`
}

// NewTimebase returns the axis for count samples taken at rate samples per second
func NewTimebase(count uint32, rate float64) (Axis, error) {
	if rate <= 0 {
		return Axis{}, device.ErrRate{What: "rate must be positive", Rate: rate}
	}
	return Axis{Start: 0, Step: 1 / rate, Count: count}, nil
}

// At returns the time of i-th sample
func (a Axis) At(i int) float64 {
	return a.Start + float64(i)*a.Step
}

func (a Axis) Values() []float64 {
	values := make([]float64, a.Count)
	for i := range values {
		values[i] = a.At(i)
	}
	return values
}
