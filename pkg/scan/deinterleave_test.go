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
	"errors"
	"reflect"
	"testing"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
)

func TestDeinterleave(t *testing.T) {
	cases := []struct {
		name string
		buf  []float64
		n    int
		want [][]float64
	}{
		{"two channels", []float64{1, 2, 3, 4, 5, 6}, 2, [][]float64{{1, 3, 5}, {2, 4, 6}}},
		{"trailing sample dropped", []float64{1, 2, 3, 4, 5, 6, 7}, 2, [][]float64{{1, 3, 5}, {2, 4, 6}}},
		{"one channel", []float64{1, 2, 3}, 1, [][]float64{{1, 2, 3}}},
		{"three channels", []float64{1, 2, 3, 4, 5, 6, 7, 8}, 3, [][]float64{{1, 4}, {2, 5}, {3, 6}}},
		{"empty", nil, 4, nil},
		{"no complete chunk", []float64{1, 2}, 3, nil},
	}
	for _, tc := range cases {
		got, err := Deinterleave(tc.buf, tc.n)
		if err != nil {
			t.Fatalf("%s: error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: Deinterleave(%v, %d) = %v, want %v", tc.name, tc.buf, tc.n, got, tc.want)
		}
	}
}

func TestDeinterleaveZeroChannels(t *testing.T) {
	_, err := Deinterleave([]float64{1}, 0)
	var cfgErr device.ErrConfiguration
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func TestDeinterleaveRoundTrip(t *testing.T) {
	for length := 0; length < 40; length++ {
		buf := make([]float64, length)
		for i := range buf {
			buf[i] = float64(i*7%13) - 3.5
		}
		for n := 1; n <= device.Nch; n++ {
			series, err := Deinterleave(buf, n)
			if err != nil {
				t.Fatalf("Deinterleave(len %d, %d) error: %v", length, n, err)
			}
			complete := n * (length / n)
			for _, s := range series {
				if len(s) != length/n {
					t.Fatalf("series length %d, want %d", len(s), length/n)
				}
			}
			back := Interleave(series)
			if len(back) != complete || !reflect.DeepEqual(back, buf[:complete]) && complete > 0 {
				t.Fatalf("Interleave(Deinterleave(len %d, %d)) = %v, want %v", length, n, back, buf[:complete])
			}
			again, _ := Deinterleave(buf, n)
			if !reflect.DeepEqual(series, again) {
				t.Fatalf("Deinterleave is not deterministic")
			}
		}
	}
}
