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

	"go.uber.org/multierr"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
)

// Session runs the start, read, stop, cleanup sequence on the board.
// Only one scan can be outstanding at a time.
type Session struct {
	hw device.Hardware

	mu        sync.Mutex
	running   bool
	cancelled bool
}

func NewSession(hw device.Hardware) *Session {
	return &Session{hw: hw}
}

// Running ...
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run executes one scan and returns the raw interleaved buffer.
// Stop and cleanup are always executed, whatever happened before them.
// The buffer is dropped if any step fails or the scan was stopped.
func (s *Session) Run(cfg *Configuration) ([]float64, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	return s.run(cfg)
}

// begin marks the session running
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrBusy{}
	}
	s.running = true
	s.cancelled = false
	return nil
}

// start starts the board unless the scan was stopped after begin.
// It holds mu so that a concurrent Stop sees either no start or a started board.
func (s *Session) start(cfg *Configuration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return false, nil
	}
	return true, s.hw.ScanStart(cfg.Mask, cfg.Samples, cfg.SampleRate, cfg.Options)
}

func (s *Session) run(cfg *Configuration) ([]float64, error) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Debug("Starting scan: mask: %08b samples: %d rate: %g options: %s",
		cfg.Mask, cfg.Samples, cfg.SampleRate, cfg.Options)

	var buf []float64
	var err error
	started, startErr := s.start(cfg)
	switch {
	case startErr != nil:
		err = device.ErrHardware{Step: "scan_start", Err: startErr}
	case started:
		var readErr error
		buf, readErr = s.hw.ScanRead(cfg.Samples, cfg.Timeout)
		if readErr != nil {
			err = device.ErrHardware{Step: "scan_read", Err: readErr}
		}
	}
	if stopErr := s.hw.ScanStop(); stopErr != nil {
		err = multierr.Append(err, device.ErrHardware{Step: "scan_stop", Err: stopErr})
	}
	if cleanupErr := s.hw.ScanCleanup(); cleanupErr != nil {
		err = multierr.Append(err, device.ErrHardware{Step: "scan_cleanup", Err: cleanupErr})
	}
	if err != nil {
		log.Error("Scan failed: %s", err)
		return nil, err
	}

	s.mu.Lock()
	cancelled := s.cancelled
	s.mu.Unlock()
	if cancelled {
		log.Info("Scan stopped on request, dropping %d samples", len(buf))
		return nil, nil
	}

	log.Debug("Scan finished: %d samples read", len(buf))
	return buf, nil
}

// Stop cancels the outstanding scan. The board is stopped at once so that a
// blocked read returns. Does nothing if no scan is running.
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.cancelled = true
	s.mu.Unlock()

	log.Info("Stopping scan")
	if err := s.hw.ScanStop(); err != nil {
		return device.ErrHardware{Step: "scan_stop", Err: err}
	}
	return nil
}
