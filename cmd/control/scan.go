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

package control

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-mcc128/pkg/command"
	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
)

const (
	ChannelsOptionName     = "channels"
	SamplesOptionName      = "samples"
	RateOptionName         = "rate"
	RangeOptionName        = "range"
	ModeOptionName         = "mode"
	TriggerOptionName      = "trigger"
	ExtClockRateOptionName = "ext-clock-rate"
	DataOptionName         = "option"
	TimeoutOptionName      = "timeout"
	OutputOptionName       = "output"
)

// scanFlags holds overrides of the scan section of the config file
type scanFlags struct {
	channels     []string
	samples      int
	rate         int
	volts        int
	mode         string
	trigger      string
	extClockRate int
	option       string
	timeout      float64
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.channels, ChannelsOptionName, nil, "Active channels, e.g. CH0H,CH2L")
	cmd.Flags().IntVar(&f.samples, SamplesOptionName, 0, "Samples per channel")
	cmd.Flags().IntVar(&f.rate, RateOptionName, 0, "Sampling rate per channel, S/s")
	cmd.Flags().IntVar(&f.volts, RangeOptionName, 0, "Input range in volts")
	cmd.Flags().StringVar(&f.mode, ModeOptionName, "", "Input mode")
	cmd.Flags().StringVar(&f.trigger, TriggerOptionName, "", "Trigger mode. Anything but NONE activates the external trigger")
	cmd.Flags().IntVar(&f.extClockRate, ExtClockRateOptionName, 0, "External clock rate, S/s. Activates the external clock")
	cmd.Flags().StringVar(&f.option, DataOptionName, "", "Data option (DEFAULT, NOSCALEDATA, NOCALIBRATEDATA)")
	cmd.Flags().Float64Var(&f.timeout, TimeoutOptionName, 0, "Read timeout in seconds, negative waits forever")
}

func (f *scanFlags) apply(cmd *cobra.Command, s *config.ScanSettings) error {
	changed := cmd.Flags().Changed
	if changed(ChannelsOptionName) {
		flags, err := device.ParseChannels(f.channels)
		if err != nil {
			return err
		}
		s.Channels.SetFlags(flags)
	}
	if changed(SamplesOptionName) {
		s.NumSamples = f.samples
	}
	if changed(RateOptionName) {
		s.SamplingRate = f.rate
	}
	if changed(RangeOptionName) {
		s.Range = f.volts
	}
	if changed(ModeOptionName) {
		s.Mode = f.mode
	}
	if changed(TriggerOptionName) {
		s.TriggerMode = f.trigger
		s.TriggerActive = !strings.EqualFold(f.trigger, string(device.TriggerNone))
	}
	if changed(ExtClockRateOptionName) {
		s.ExternalClock = f.extClockRate != 0
		s.ExternalClockRate = f.extClockRate
	}
	if changed(DataOptionName) {
		s.Option = f.option
	}
	if changed(TimeoutOptionName) {
		s.Timeout = f.timeout
	}
	return nil
}

func NewScanCommand() *cobra.Command {
	var flags scanFlags
	var output string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := cfg.Scan.Copy()
			if err := flags.apply(cmd, settings); err != nil {
				return err
			}
			apiClient := command.NewApiClient(cfg)
			result, err := apiClient.Scan(settings)
			if err != nil {
				return err
			}
			if !result.Fresh {
				fmt.Fprintln(cmd.OutOrStdout(), "No new data, previous dataset is kept")
			}
			if result.Dataset == nil {
				return nil
			}
			return printDataset(cmd.OutOrStdout(), result.Dataset, output)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&output, OutputOptionName, "summary", "Output format: summary or yaml")

	return cmd
}

func printDataset(out io.Writer, ds *scan.Dataset, output string) error {
	switch output {
	case "yaml":
		data, err := yaml.Marshal(ds)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "summary":
		fmt.Fprintf(out, "Dataset #%d at %s, mask 0x%02x, options %s\n",
			ds.Seq, ds.Timestamp.Format("2006-01-02 15:04:05.000"), ds.Mask, ds.Options)
		fmt.Fprintf(out, "Axis: %d points, step %gs\n", ds.Axis.Count, ds.Axis.Step)
		for i, label := range ds.Labels {
			series := ds.Series[i]
			if len(series) == 0 {
				fmt.Fprintf(out, "%s: no samples\n", label)
				continue
			}
			lo, hi := series[0], series[0]
			for _, v := range series {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			fmt.Fprintf(out, "%s: %d samples, min %g, max %g\n", label, len(series), lo, hi)
		}
		return nil
	}
	return fmt.Errorf("wrong output format %q", output)
}
