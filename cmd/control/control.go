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
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Run acquisition server and send requests to it",
	}
	cmd.AddCommand(NewStartCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewStopCommand())
	cmd.AddCommand(NewSetupCommand("range", "Set input range in volts (10, 5, 2, 1)"))
	cmd.AddCommand(NewSetupCommand("mode", "Set input mode (SINGLE_ENDED, DIFFERENTIAL)"))
	cmd.AddCommand(NewSetupCommand("trigger", "Set trigger mode (NONE, RISING_EDGE, FALLING_EDGE, ACTIVE_HIGH, ACTIVE_LOW)"))
	cmd.AddCommand(NewStateCommand())
	cmd.AddCommand(NewDatasetCommand())
	cmd.AddCommand(NewPersistCommand())
	cmd.AddCommand(NewFlushCommand())
	return cmd
}
