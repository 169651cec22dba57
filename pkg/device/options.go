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

package device

import (
	"fmt"
	"strings"
)

// OptionFlags are passed to ScanStart
type OptionFlags uint8

const (
	OptsDefault         OptionFlags = 0x00
	OptsNoScaleData     OptionFlags = 0x01
	OptsNoCalibrateData OptionFlags = 0x02
	OptsExtClock        OptionFlags = 0x04
	OptsExtTrigger      OptionFlags = 0x08
	OptsContinuous      OptionFlags = 0x10
)

var dataOptions = map[string]OptionFlags{
	"DEFAULT":         OptsDefault,
	"NOSCALEDATA":     OptsNoScaleData,
	"NOCALIBRATEDATA": OptsNoCalibrateData,
}

// ParseDataOption parses the data conversion option used as base for the scan options
func ParseDataOption(s string) (OptionFlags, error) {
	if s == "" {
		return OptsDefault, nil
	}
	o, ok := dataOptions[strings.ToUpper(s)]
	if !ok {
		return 0, ErrConfiguration{What: fmt.Sprintf("wrong option %q. Must be one of DEFAULT, NOSCALEDATA, NOCALIBRATEDATA", s)}
	}
	return o, nil
}

// BuildOptions composes the trigger and clock toggles with the base data option
func BuildOptions(base OptionFlags, triggerActive, externalClock bool) OptionFlags {
	opts := base
	if triggerActive {
		opts |= OptsExtTrigger
	}
	if externalClock {
		opts |= OptsExtClock
	}
	return opts
}

func (o OptionFlags) Has(flag OptionFlags) bool {
	return o&flag == flag
}

func (o OptionFlags) String() string {
	if o == OptsDefault {
		return "DEFAULT"
	}
	var names []string
	for _, f := range []struct {
		flag OptionFlags
		name string
	}{
		{OptsNoScaleData, "NOSCALEDATA"},
		{OptsNoCalibrateData, "NOCALIBRATEDATA"},
		{OptsExtClock, "EXTCLOCK"},
		{OptsExtTrigger, "EXTTRIGGER"},
		{OptsContinuous, "CONTINUOUS"},
	} {
		if o.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}
