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
	"sync"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
)

// fakeBoard records every call made to the board
type fakeBoard struct {
	mu    sync.Mutex
	calls []string

	buf      []float64
	startErr error
	readErr  error
	stopErr  error
	cleanErr error

	// read blocks until release is closed when set
	release chan struct{}
	reading chan struct{}

	mask    uint8
	samples uint32
	rate    float64
	options device.OptionFlags
	timeout float64
}

func (f *fakeBoard) call(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBoard) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBoard) ModeWrite(code uint8) error        { f.call("mode_write"); return nil }
func (f *fakeBoard) RangeWrite(code uint8) error       { f.call("range_write"); return nil }
func (f *fakeBoard) TriggerModeWrite(code uint8) error { f.call("trigger_mode_write"); return nil }

func (f *fakeBoard) ScanStart(mask uint8, samples uint32, rate float64, options device.OptionFlags) error {
	f.call("scan_start")
	f.mask, f.samples, f.rate, f.options = mask, samples, rate, options
	return f.startErr
}

func (f *fakeBoard) ScanRead(samples uint32, timeout float64) ([]float64, error) {
	f.call("scan_read")
	f.timeout = timeout
	if f.release != nil {
		close(f.reading)
		<-f.release
	}
	return f.buf, f.readErr
}

func (f *fakeBoard) ScanStop() error {
	f.call("scan_stop")
	if f.release != nil {
		select {
		case <-f.release:
		default:
			close(f.release)
		}
	}
	return f.stopErr
}

func (f *fakeBoard) ScanCleanup() error {
	f.call("scan_cleanup")
	return f.cleanErr
}
