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

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/device/sim"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/srv/acquire"
)

// NewHardware returns the board driver selected in the config
func NewHardware(cfg *config.Config) (device.Hardware, error) {
	switch cfg.Backend {
	case config.BackendSim:
		board := sim.NewBoard(uint8(cfg.HatAddress))
		board.Realtime = true
		return board, nil
	}
	return nil, config.ErrInvalidConfig{What: "unknown backend " + cfg.Backend}
}

// StartAcquisitionServer runs the server until SIGINT or SIGTERM
func StartAcquisitionServer(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hw, err := NewHardware(cfg)
	if err != nil {
		return err
	}
	s, err := acquire.NewAcquisitionServer(ctx, cfg, hw)
	if err != nil {
		return err
	}
	err = s.Run()
	if err == context.Canceled {
		log.Info("Acquisition server stopped")
		return nil
	}
	return err
}
