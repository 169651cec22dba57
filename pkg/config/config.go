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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
)

// ChannelsConfig has one active flag per analog input
type ChannelsConfig struct {
	CH0H bool `yaml:"CH0H" json:"CH0H"`
	CH1H bool `yaml:"CH1H" json:"CH1H"`
	CH2H bool `yaml:"CH2H" json:"CH2H"`
	CH3H bool `yaml:"CH3H" json:"CH3H"`
	CH0L bool `yaml:"CH0L" json:"CH0L"`
	CH1L bool `yaml:"CH1L" json:"CH1L"`
	CH2L bool `yaml:"CH2L" json:"CH2L"`
	CH3L bool `yaml:"CH3L" json:"CH3L"`
}

// Flags returns the active flags in canonical channel order
func (c *ChannelsConfig) Flags() device.ChannelFlags {
	return device.ChannelFlags{c.CH0H, c.CH1H, c.CH2H, c.CH3H, c.CH0L, c.CH1L, c.CH2L, c.CH3L}
}

// SetFlags ...
func (c *ChannelsConfig) SetFlags(f device.ChannelFlags) {
	c.CH0H, c.CH1H, c.CH2H, c.CH3H = f[0], f[1], f[2], f[3]
	c.CH0L, c.CH1L, c.CH2L, c.CH3L = f[4], f[5], f[6], f[7]
}

// ScanSettings describes one scan request
type ScanSettings struct {
	Channels          *ChannelsConfig `yaml:"channels" json:"channels"`
	Mode              string          `yaml:"mode" json:"mode"`
	Range             int             `yaml:"range" json:"range"`
	TriggerActive     bool            `yaml:"trigger_active" json:"trigger_active"`
	TriggerMode       string          `yaml:"trigger_mode" json:"trigger_mode"`
	ExternalClock     bool            `yaml:"external_clock" json:"external_clock"`
	ExternalClockRate int             `yaml:"external_clock_rate" json:"external_clock_rate"`
	NumSamples        int             `yaml:"num_samples" json:"num_samples"`
	SamplingRate      int             `yaml:"sampling_rate" json:"sampling_rate"`
	Option            string          `yaml:"option" json:"option"`
	// Read timeout in seconds. Zero means derive it from num_samples and sampling_rate.
	Timeout float64 `yaml:"timeout" json:"timeout"`
}

func NewDefaultScanSettings() *ScanSettings {
	return &ScanSettings{
		Channels:     &ChannelsConfig{CH0H: true},
		Mode:         DefaultMode,
		Range:        DefaultRange,
		TriggerMode:  DefaultTriggerMode,
		NumSamples:   DefaultNumSamples,
		SamplingRate: DefaultSamplingRate,
		Option:       DefaultOption,
	}
}

// Copy returns a deep copy so that a request can override fields
func (s *ScanSettings) Copy() *ScanSettings {
	c := *s
	if s.Channels != nil {
		ch := *s.Channels
		c.Channels = &ch
	} else {
		c.Channels = &ChannelsConfig{}
	}
	return &c
}

type Config struct {
	Address    string        `yaml:"address"`
	ApiPort    int           `yaml:"api_port"`
	DBPath     string        `yaml:"db_path"`
	DataDir    string        `yaml:"data_dir"`
	LogLevel   string        `yaml:"log_level"`
	Backend    string        `yaml:"backend"`
	HatAddress int           `yaml:"hat_address"`
	Scan       *ScanSettings `yaml:"scan"`
	filepath   string
}

// Validate checks the parts of the config which are not validated by the scan engine
func (c *Config) Validate() error {
	if net.ParseIP(c.Address) == nil {
		return ErrInvalidConfig{What: fmt.Sprintf("address %q is not an IP", c.Address)}
	}
	if c.ApiPort <= 0 || c.ApiPort > 65535 {
		return ErrInvalidConfig{What: fmt.Sprintf("api_port %d out of range", c.ApiPort)}
	}
	if c.HatAddress < 0 || c.HatAddress > MaxHatAddress {
		return ErrInvalidConfig{What: fmt.Sprintf("hat_address %d must be in 0..%d", c.HatAddress, MaxHatAddress)}
	}
	if c.Backend != BackendSim {
		return ErrInvalidConfig{What: fmt.Sprintf("unknown backend %q", c.Backend)}
	}
	if c.Scan == nil {
		return ErrInvalidConfig{What: "scan section is missing"}
	}
	if c.Scan.NumSamples < 0 || c.Scan.NumSamples > MaxNumSamples {
		return ErrInvalidConfig{What: fmt.Sprintf("num_samples %d must be in 0..%d", c.Scan.NumSamples, MaxNumSamples)}
	}
	return nil
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

func (c *Config) LoadConfig() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Load reads the config file if there is one and keeps defaults otherwise
func (c *Config) Load() error {
	err := c.LoadConfig()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		Address:    DefaultAddress,
		ApiPort:    DefaultApiPort,
		DBPath:     filepath.Join(DefaultConfigDir(), DBFile),
		DataDir:    filepath.Join(DefaultConfigDir(), DataDir),
		LogLevel:   DefaultLogLevel,
		Backend:    DefaultBackend,
		HatAddress: DefaultHatAddress,
		Scan:       NewDefaultScanSettings(),
		filepath:   DefaultConfigPath(),
	}
}
