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

// Hardware is the contract of the board driver. Timeouts are in seconds,
// a negative timeout waits forever. ScanRead may return fewer samples than
// requested, including none, when the timeout elapses.
type Hardware interface {
	ModeWrite(code uint8) error
	RangeWrite(code uint8) error
	TriggerModeWrite(code uint8) error

	ScanStart(mask uint8, samples uint32, rate float64, options OptionFlags) error
	ScanRead(samples uint32, timeout float64) ([]float64, error)
	ScanStop() error
	ScanCleanup() error
}
