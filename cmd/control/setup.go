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
	"strconv"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mcc128/pkg/command"
	"jinr.ru/greenlab/go-mcc128/pkg/config"
)

func NewStopCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).Stop()
		},
	}
	return cmd
}

// NewSetupCommand creates one of the range, mode and trigger commands
func NewSetupCommand(setting, short string) *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <value>", setting),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			switch setting {
			case "range":
				volts, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("wrong range %q: %w", args[0], err)
				}
				return apiClient.SetRange(volts)
			case "mode":
				return apiClient.SetMode(args[0])
			case "trigger":
				return apiClient.SetTrigger(args[0])
			}
			return fmt.Errorf("unknown setting %s", setting)
		},
	}
	return cmd
}

func NewStateCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print applied settings and scan counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := command.NewApiClient(cfg).State()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rangeName, modeName := "not set", "not set"
			if bs.Range != 0 {
				rangeName = bs.Range.String()
			}
			if bs.Mode != "" {
				modeName = string(bs.Mode)
			}
			fmt.Fprintf(out, "Range: %s\nMode: %s\nTrigger: %s\nBusy: %t\n", rangeName, modeName, bs.Trigger, bs.Busy)
			if bs.PersistFile != "" {
				fmt.Fprintf(out, "Data file: %s\n", bs.PersistFile)
			}
			if bs.Counters != nil {
				fmt.Fprintf(out, "Scans: %d (fresh %d, empty %d, failed %d)\n",
					bs.Counters.Scans, bs.Counters.Fresh, bs.Counters.Empty, bs.Counters.Failed)
			}
			return nil
		},
	}
	return cmd
}

func NewDatasetCommand() *cobra.Command {
	var output string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Print the last dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := command.NewApiClient(cfg).Dataset()
			if err != nil {
				return err
			}
			return printDataset(cmd.OutOrStdout(), ds, output)
		},
	}
	cmd.Flags().StringVar(&output, OutputOptionName, "yaml", "Output format: summary or yaml")
	return cmd
}

func NewPersistCommand() *cobra.Command {
	var filePrefix string
	var dir string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Start writing fresh datasets to a data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).Persist(dir, filePrefix)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory path where to persist data. Default is data_dir from config")
	cmd.Flags().StringVar(&filePrefix, "file-prefix", "", "File name prefix")
	cmd.MarkFlagRequired("file-prefix")
	return cmd
}

func NewFlushCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Close the data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).Flush()
		},
	}
	return cmd
}
