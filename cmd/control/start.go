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
	"net"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mcc128/pkg/command"
	"jinr.ru/greenlab/go-mcc128/pkg/config"
)

const (
	AddressOptionName    = "address"
	PortOptionName       = "port"
	HatAddressOptionName = "hat-address"
)

func NewStartCommand() *cobra.Command {
	var address string
	var port, hatAddress int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start acquisition server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				if net.ParseIP(address) == nil {
					return fmt.Errorf("wrong address %q", address)
				}
				cfg.Address = address
			}
			if cmd.Flags().Changed(PortOptionName) {
				cfg.ApiPort = port
			}
			if cmd.Flags().Changed(HatAddressOptionName) {
				cfg.HatAddress = hatAddress
			}
			return command.StartAcquisitionServer(cfg)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("IP to bind. E.g. %s", config.DefaultAddress))
	cmd.Flags().IntVar(&port, PortOptionName, config.DefaultApiPort, "API port to bind")
	cmd.Flags().IntVar(&hatAddress, HatAddressOptionName, config.DefaultHatAddress, "Board address on the HAT stack (0..7)")

	return cmd
}
