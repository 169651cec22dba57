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
	"time"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
)

// Dataset is what a successful scan produces: one series per active channel,
// labels matching series 1:1 and a shared time axis.
type Dataset struct {
	Seq       uint64             `json:"seq"`
	Timestamp time.Time          `json:"timestamp"`
	Mask      uint8              `json:"mask"`
	Options   device.OptionFlags `json:"options"`
	Labels    []string           `json:"labels"`
	Axis      Axis               `json:"axis"`
	Series    [][]float64        `json:"series"`
}

// Acquirer runs complete acquisitions against one board.
// Calls must be serialized by the caller, only Stop may be called concurrently.
type Acquirer struct {
	ctrl    *device.Controller
	session *Session
	last    *Dataset
	seq     uint64
}

func NewAcquirer(hw device.Hardware) *Acquirer {
	return &Acquirer{
		ctrl:    device.NewController(hw),
		session: NewSession(hw),
	}
}

// Controller gives access to range and mode changes outside of scans
func (a *Acquirer) Controller() *device.Controller {
	return a.ctrl
}

// Last returns the last emitted dataset or nil
func (a *Acquirer) Last() *Dataset {
	return a.last
}

// Restore makes ds the previous dataset, e.g. after a restart
func (a *Acquirer) Restore(ds *Dataset) {
	a.last = ds
	if ds != nil && ds.Seq > a.seq {
		a.seq = ds.Seq
	}
}

// Busy ...
func (a *Acquirer) Busy() bool {
	return a.session.Running()
}

// Stop cancels the running scan
func (a *Acquirer) Stop() error {
	return a.session.Stop()
}

// Acquire performs one scan. The returned flag is false when the board
// produced no complete chunk; the previous dataset is returned unchanged then.
func (a *Acquirer) Acquire(s *config.ScanSettings) (*Dataset, bool, error) {
	cfg, err := NewConfiguration(s)
	if err != nil {
		return nil, false, err
	}
	if err := a.ctrl.Apply(cfg.Range, cfg.Mode, cfg.Trigger); err != nil {
		return nil, false, err
	}

	buf, err := a.session.Run(cfg)
	if err != nil {
		return nil, false, err
	}

	series, err := Deinterleave(buf, len(cfg.Channels))
	if err != nil {
		return nil, false, err
	}
	if len(series) == 0 {
		log.Info("No data in this scan, keeping previous dataset")
		return a.last, false, nil
	}
	if dropped := len(buf) % len(cfg.Channels); dropped != 0 {
		log.Warning("Dropped %d trailing samples of an incomplete chunk", dropped)
	}

	axis, err := NewTimebase(uint32(len(series[0])), cfg.AxisRate)
	if err != nil {
		return nil, false, err
	}

	a.seq++
	a.last = &Dataset{
		Seq:       a.seq,
		Timestamp: time.Now(),
		Mask:      cfg.Mask,
		Options:   cfg.Options,
		Labels:    cfg.Labels(),
		Axis:      axis,
		Series:    series,
	}
	log.Debug("Dataset %d: channels: %v points: %d", a.seq, a.last.Labels, axis.Count)
	return a.last, true, nil
}
