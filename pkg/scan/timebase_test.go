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
	"math"
	"testing"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
)

const tolerance = 1e-9

func TestTimebase(t *testing.T) {
	axis, err := NewTimebase(1000, 100)
	if err != nil {
		t.Fatalf("NewTimebase error: %v", err)
	}
	values := axis.Values()
	if len(values) != 1000 {
		t.Fatalf("len(Values()) = %d, want 1000", len(values))
	}
	if values[0] != 0 {
		t.Fatalf("first value = %g, want 0", values[0])
	}
	if math.Abs(axis.Step-0.01) > tolerance {
		t.Fatalf("step = %g, want 0.01", axis.Step)
	}
	if math.Abs(values[999]-9.99) > tolerance {
		t.Fatalf("last value = %g, want 9.99", values[999])
	}
}

func TestTimebaseEmpty(t *testing.T) {
	axis, err := NewTimebase(0, 10)
	if err != nil || len(axis.Values()) != 0 {
		t.Fatalf("NewTimebase(0, 10) = %+v, %v", axis, err)
	}
}

func TestTimebaseBadRate(t *testing.T) {
	for _, rate := range []float64{0, -1} {
		_, err := NewTimebase(10, rate)
		var rateErr device.ErrRate
		if !errors.As(err, &rateErr) {
			t.Fatalf("NewTimebase(10, %g) error = %v, want ErrRate", rate, err)
		}
	}
}
