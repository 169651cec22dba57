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

func TestAcquire(t *testing.T) {
	board := &fakeBoard{buf: []float64{1, 2, 3, 4, 5, 6, 7}}
	a := NewAcquirer(board)
	s := twoChannelSettings()
	s.NumSamples = 3

	ds, fresh, err := a.Acquire(s)
	if err != nil || !fresh {
		t.Fatalf("Acquire = %v, %v", fresh, err)
	}
	if !reflect.DeepEqual(ds.Series, [][]float64{{1, 3, 5}, {2, 4, 6}}) {
		t.Fatalf("series = %v", ds.Series)
	}
	if !reflect.DeepEqual(ds.Labels, []string{"CH0H", "CH2L"}) {
		t.Fatalf("labels = %v", ds.Labels)
	}
	if ds.Axis.Count != 3 || ds.Axis.Step != 0.01 || ds.Seq != 1 {
		t.Fatalf("axis = %+v seq = %d", ds.Axis, ds.Seq)
	}
	want := []string{"range_write", "mode_write", "scan_start", "scan_read", "scan_stop", "scan_cleanup"}
	if !reflect.DeepEqual(board.Calls(), want) {
		t.Fatalf("calls = %v, want %v", board.Calls(), want)
	}
	if a.Last() != ds {
		t.Fatalf("Last() is not the new dataset")
	}
}

func TestAcquireEmptyKeepsPrevious(t *testing.T) {
	board := &fakeBoard{buf: []float64{1, 2, 3, 4}}
	a := NewAcquirer(board)
	first, _, err := a.Acquire(twoChannelSettings())
	if err != nil {
		t.Fatal(err)
	}

	board.buf = nil
	ds, fresh, err := a.Acquire(twoChannelSettings())
	if err != nil || fresh {
		t.Fatalf("Acquire on empty buffer = %v, %v", fresh, err)
	}
	if ds != first || !reflect.DeepEqual(first.Series, [][]float64{{1, 3}, {2, 4}}) {
		t.Fatalf("previous dataset changed: %+v", ds)
	}
	calls := board.Calls()
	if tail := calls[len(calls)-2:]; !reflect.DeepEqual(tail, []string{"scan_stop", "scan_cleanup"}) {
		t.Fatalf("empty scan did not stop and clean up: %v", calls)
	}
}

func TestAcquireFailsFast(t *testing.T) {
	board := &fakeBoard{}
	a := NewAcquirer(board)
	s := twoChannelSettings()
	s.SamplingRate = 0
	if _, _, err := a.Acquire(s); !errors.As(err, &device.ErrRate{}) {
		t.Fatalf("error = %v, want ErrRate", err)
	}
	if len(board.Calls()) != 0 {
		t.Fatalf("board touched before validation: %v", board.Calls())
	}
}

func TestAcquireExternalClockAxis(t *testing.T) {
	board := &fakeBoard{buf: []float64{1, 2, 3, 4}}
	a := NewAcquirer(board)
	s := twoChannelSettings()
	s.ExternalClock = true
	s.ExternalClockRate = 1000
	ds, _, err := a.Acquire(s)
	if err != nil {
		t.Fatal(err)
	}
	if board.rate != 100 || ds.Axis.Step != 0.001 {
		t.Fatalf("scan start rate = %g axis step = %g", board.rate, ds.Axis.Step)
	}
}

func TestAcquireRestore(t *testing.T) {
	a := NewAcquirer(&fakeBoard{buf: []float64{1}})
	a.Restore(&Dataset{Seq: 41})
	s := twoChannelSettings()
	s.Channels.CH2L = false
	ds, _, err := a.Acquire(s)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Seq != 42 {
		t.Fatalf("seq = %d, want 42", ds.Seq)
	}
}
