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

	"jinr.ru/greenlab/go-mcc128/pkg/device"
)

// Deinterleave splits the round-robin board buffer into one series per channel.
// Samples which do not complete the last chunk are dropped. Nil is returned
// when the buffer does not hold a single complete chunk.
func Deinterleave(buf []float64, n int) ([][]float64, error) {
	if n < 1 {
		return nil, device.ErrConfiguration{What: fmt.Sprintf("channel count %d must be at least 1", n)}
	}
	chunks := len(buf) / n
	if chunks == 0 {
		return nil, nil
	}
	series := make([][]float64, n)
	for j := range series {
		series[j] = make([]float64, chunks)
	}
	for i := 0; i < chunks; i++ {
		chunk := buf[i*n : (i+1)*n]
		for j, v := range chunk {
			series[j][i] = v
		}
	}
	return series, nil
}

// Interleave builds the buffer the board would return for the given series.
// All series are cut to the length of the shortest one.
func Interleave(series [][]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	chunks := len(series[0])
	for _, s := range series[1:] {
		if len(s) < chunks {
			chunks = len(s)
		}
	}
	buf := make([]float64, 0, chunks*len(series))
	for i := 0; i < chunks; i++ {
		for _, s := range series {
			buf = append(buf, s[i])
		}
	}
	return buf
}
