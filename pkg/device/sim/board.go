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

// Package sim implements a board which generates sine waves instead of
// sampling real inputs. It is used when no hardware is attached.
package sim

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
)

const (
	DefaultSignalFrequency = 1.0
	// AdcMaxCode is the full scale code of the 14-bit converter
	AdcMaxCode = 16383
	// BufferSizePerChannel limits the number of samples the board keeps
	BufferSizePerChannel = 100000
)

var (
	ErrScanRunning    = errors.New("scan is already running")
	ErrScanNotStarted = errors.New("scan has not been started")
	ErrNoChannels     = errors.New("channel mask is empty")
)

var rangeVolts = map[uint8]float64{0: 10, 1: 5, 2: 2, 3: 1}

// Board ...
type Board struct {
	Address uint8
	// SignalFrequency of the generated sine in Hz
	SignalFrequency float64
	// Realtime makes ScanRead wait as long as a real scan would
	Realtime bool

	mu          sync.Mutex
	mode        uint8
	rangeCode   uint8
	triggerCode uint8
	started     bool
	running     bool
	mask        uint8
	samples     uint32
	rate        float64
	options     device.OptionFlags
	stopCh      chan struct{}
}

var _ device.Hardware = &Board{}

func NewBoard(address uint8) *Board {
	return &Board{
		Address:         address,
		SignalFrequency: DefaultSignalFrequency,
	}
}

func (b *Board) ModeWrite(code uint8) error {
	if code > 1 {
		return fmt.Errorf("invalid input mode code %d", code)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = code
	return nil
}

func (b *Board) RangeWrite(code uint8) error {
	if _, ok := rangeVolts[code]; !ok {
		return fmt.Errorf("invalid input range code %d", code)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rangeCode = code
	return nil
}

func (b *Board) TriggerModeWrite(code uint8) error {
	if code > 3 {
		return fmt.Errorf("invalid trigger mode code %d", code)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.triggerCode = code
	return nil
}

func (b *Board) ScanStart(mask uint8, samples uint32, rate float64, options device.OptionFlags) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrScanRunning
	}
	if mask == 0 {
		return ErrNoChannels
	}
	if rate <= 0 {
		return fmt.Errorf("invalid sample rate %g", rate)
	}
	if samples > BufferSizePerChannel {
		return fmt.Errorf("%d samples per channel exceed the scan buffer", samples)
	}
	log.Debug("Simulated board %d: scan start: mask: %08b samples: %d rate: %g", b.Address, mask, samples, rate)
	b.started = true
	b.running = true
	b.mask = mask
	b.samples = samples
	b.rate = rate
	b.options = options
	b.stopCh = make(chan struct{})
	return nil
}

// ScanRead returns the requested samples of every active channel in
// round-robin order. In realtime mode it returns what was "sampled" until
// the timeout elapsed or the scan was stopped.
func (b *Board) ScanRead(samples uint32, timeout float64) ([]float64, error) {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil, ErrScanNotStarted
	}
	if samples > b.samples {
		samples = b.samples
	}
	stopCh := b.stopCh
	rate := b.rate
	realtime := b.Realtime
	b.mu.Unlock()

	if realtime && samples > 0 {
		duration := time.Duration(float64(samples) / rate * float64(time.Second))
		wait := duration
		if timeout >= 0 && time.Duration(timeout*float64(time.Second)) < wait {
			wait = time.Duration(timeout * float64(time.Second))
		}
		started := time.Now()
		select {
		case <-time.After(wait):
		case <-stopCh:
		}
		if elapsed := time.Since(started); elapsed < duration {
			samples = uint32(elapsed.Seconds() * rate)
		}
	}
	return b.generate(samples), nil
}

func (b *Board) generate(samples uint32) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var series [][]float64
	for _, ch := range device.Channels {
		if b.mask&(1<<ch.Bit) == 0 {
			continue
		}
		series = append(series, b.channelSignal(ch, samples))
	}
	return scan.Interleave(series)
}

// channelSignal returns a sine shifted in phase by the channel index
func (b *Board) channelSignal(ch device.Channel, samples uint32) []float64 {
	volts := rangeVolts[b.rangeCode]
	amplitude := 0.9 * volts
	phase := float64(ch.Index) * math.Pi / device.Nch
	values := make([]float64, samples)
	for i := range values {
		t := float64(i) / b.rate
		v := amplitude * math.Sin(2*math.Pi*b.SignalFrequency*t+phase)
		if b.options&device.OptsNoScaleData != 0 {
			v = math.Round((v/volts + 1) / 2 * AdcMaxCode)
		}
		values[i] = v
	}
	return values
}

func (b *Board) ScanStop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		b.running = false
		close(b.stopCh)
	}
	return nil
}

func (b *Board) ScanCleanup() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrScanRunning
	}
	b.started = false
	b.samples = 0
	return nil
}

// State returns the last codes written to the board
func (b *Board) State() (mode, rangeCode, triggerCode uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode, b.rangeCode, b.triggerCode
}
