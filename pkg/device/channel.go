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

// Nch is the number of analog inputs on the board
const Nch = 8

type Channel struct {
	Name  string
	Bit   uint8
	Index int
}

// Channels in canonical order. The board interleaves samples in this order,
// so it also defines the order of the reassembled series.
var Channels = [Nch]Channel{
	{Name: "CH0H", Bit: 0, Index: 0},
	{Name: "CH1H", Bit: 1, Index: 1},
	{Name: "CH2H", Bit: 2, Index: 2},
	{Name: "CH3H", Bit: 3, Index: 3},
	{Name: "CH0L", Bit: 4, Index: 4},
	{Name: "CH1L", Bit: 5, Index: 5},
	{Name: "CH2L", Bit: 6, Index: 6},
	{Name: "CH3L", Bit: 7, Index: 7},
}

// ChannelFlags holds one active flag per channel indexed by canonical order
type ChannelFlags [Nch]bool

// Selection is the result of channel selection
type Selection struct {
	Mask     uint8
	Count    int
	Channels []Channel
}

// Names returns the channel labels in the order samples come from the board
func (s *Selection) Names() []string {
	names := make([]string, 0, len(s.Channels))
	for _, ch := range s.Channels {
		names = append(names, ch.Name)
	}
	return names
}

// ChannelByName ...
func ChannelByName(name string) (Channel, error) {
	for _, ch := range Channels {
		if strings.EqualFold(ch.Name, name) {
			return ch, nil
		}
	}
	return Channel{}, ErrConfiguration{What: fmt.Sprintf("unknown channel %q", name)}
}

// ParseChannels turns a list of channel names into flags
func ParseChannels(names []string) (ChannelFlags, error) {
	var flags ChannelFlags
	for _, name := range names {
		ch, err := ChannelByName(strings.TrimSpace(name))
		if err != nil {
			return flags, err
		}
		flags[ch.Index] = true
	}
	return flags, nil
}

// SelectChannels builds the channel bitmask for the active channels
func SelectChannels(flags ChannelFlags) (*Selection, error) {
	s := &Selection{}
	for _, ch := range Channels {
		if !flags[ch.Index] {
			continue
		}
		s.Mask |= 1 << ch.Bit
		s.Count++
		s.Channels = append(s.Channels, ch)
	}
	if s.Count == 0 {
		return nil, ErrConfiguration{What: "no channel selected"}
	}
	return s, nil
}
