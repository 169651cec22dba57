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
	"fmt"
	"math"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
)

const (
	// MaxAggregateRate is the board limit shared by all active channels (samples per second)
	MaxAggregateRate = 100000
	// TimeoutMargin is added to the expected scan duration when no timeout is configured
	TimeoutMargin = 1.0
)

// Configuration is built for every scan request and never reused
type Configuration struct {
	Mask     uint8
	Channels []device.Channel
	// Samples per channel
	Samples uint32
	// SampleRate is passed to ScanStart
	SampleRate float64
	// AxisRate is used for the time axis. It is the external clock rate
	// when the board is clocked externally and SampleRate otherwise.
	AxisRate float64
	Options  device.OptionFlags
	Range    device.Range
	Mode     device.Mode
	Trigger  device.TriggerMode
	// Read timeout in seconds, negative waits forever
	Timeout float64
}

// Labels ...
func (c *Configuration) Labels() []string {
	labels := make([]string, 0, len(c.Channels))
	for _, ch := range c.Channels {
		labels = append(labels, ch.Name)
	}
	return labels
}

// NewConfiguration validates scan settings. Every configuration and rate
// error is detected here, before anything is written to the board.
func NewConfiguration(s *config.ScanSettings) (*Configuration, error) {
	if s == nil || s.Channels == nil {
		return nil, device.ErrConfiguration{What: "no channel selected"}
	}
	selection, err := device.SelectChannels(s.Channels.Flags())
	if err != nil {
		return nil, err
	}
	r, err := device.ParseRange(s.Range)
	if err != nil {
		return nil, err
	}
	m, err := device.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	t, err := device.ParseTriggerMode(s.TriggerMode)
	if err != nil {
		return nil, err
	}
	if s.TriggerActive && t == device.TriggerNone {
		return nil, device.ErrConfiguration{What: "trigger is active but trigger mode is NONE"}
	}
	base, err := device.ParseDataOption(s.Option)
	if err != nil {
		return nil, err
	}
	if s.NumSamples < 0 {
		return nil, device.ErrConfiguration{What: fmt.Sprintf("number of samples %d is negative", s.NumSamples)}
	}
	if int64(s.NumSamples) > math.MaxUint32 {
		return nil, device.ErrConfiguration{What: fmt.Sprintf("number of samples %d does not fit the board counter", s.NumSamples)}
	}
	if s.NumSamples > config.MaxNumSamples {
		return nil, device.ErrConfiguration{What: fmt.Sprintf("number of samples %d exceeds %d per channel", s.NumSamples, config.MaxNumSamples)}
	}

	rate := float64(s.SamplingRate)
	if rate <= 0 {
		return nil, device.ErrRate{What: "sampling rate must be positive", Rate: rate}
	}
	if aggregate := rate * float64(selection.Count); aggregate > MaxAggregateRate {
		return nil, device.ErrRate{
			What: fmt.Sprintf("%d channels at this rate exceed the aggregate limit of %d S/s (max %d S/s per channel)",
				selection.Count, MaxAggregateRate, MaxAggregateRate/selection.Count),
			Rate: rate,
		}
	}
	axisRate := rate
	if s.ExternalClock {
		axisRate = float64(s.ExternalClockRate)
		if axisRate <= 0 {
			return nil, device.ErrRate{What: "external clock rate must be positive", Rate: axisRate, External: true}
		}
		if axisRate != rate {
			// TODO: confirm with the board documentation whether ScanStart should get the external rate
			log.Warning("External clock rate %g differs from sampling rate %g passed to the board", axisRate, rate)
		}
	}

	samples := uint32(s.NumSamples)
	timeout := s.Timeout
	if timeout == 0 {
		timeout = float64(samples)/rate + TimeoutMargin
	}

	return &Configuration{
		Mask:       selection.Mask,
		Channels:   selection.Channels,
		Samples:    samples,
		SampleRate: rate,
		AxisRate:   axisRate,
		Options:    device.BuildOptions(base, s.TriggerActive, s.ExternalClock),
		Range:      r,
		Mode:       m,
		Trigger:    t,
		Timeout:    timeout,
	}, nil
}
