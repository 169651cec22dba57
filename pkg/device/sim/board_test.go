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

package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
)

func TestBoardScan(t *testing.T) {
	b := NewBoard(0)
	if err := b.ScanStart(0x41, 10, 100, device.OptsDefault); err != nil {
		t.Fatalf("ScanStart error: %v", err)
	}
	if err := b.ScanStart(0x41, 10, 100, device.OptsDefault); !errors.Is(err, ErrScanRunning) {
		t.Fatalf("second ScanStart error = %v", err)
	}
	buf, err := b.ScanRead(10, 1)
	if err != nil {
		t.Fatalf("ScanRead error: %v", err)
	}
	if len(buf) != 20 {
		t.Fatalf("len(buf) = %d, want 20", len(buf))
	}
	if err := b.ScanCleanup(); !errors.Is(err, ErrScanRunning) {
		t.Fatalf("ScanCleanup while running error = %v", err)
	}
	if err := b.ScanStop(); err != nil {
		t.Fatal(err)
	}
	if err := b.ScanCleanup(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.ScanRead(10, 1); !errors.Is(err, ErrScanNotStarted) {
		t.Fatalf("ScanRead after cleanup error = %v", err)
	}
}

func TestBoardRangeScaling(t *testing.T) {
	b := NewBoard(0)
	if err := b.RangeWrite(device.Range1V.Code()); err != nil {
		t.Fatal(err)
	}
	if err := b.ScanStart(0x01, 400, 400, device.OptsDefault); err != nil {
		t.Fatal(err)
	}
	buf, _ := b.ScanRead(400, 1)
	for _, v := range buf {
		if math.Abs(v) > 1 {
			t.Fatalf("sample %g outside of +/-1V range", v)
		}
	}
	b.ScanStop()
	b.ScanCleanup()

	if err := b.ScanStart(0x01, 400, 400, device.OptsNoScaleData); err != nil {
		t.Fatal(err)
	}
	buf, _ = b.ScanRead(400, 1)
	for _, v := range buf {
		if v < 0 || v > AdcMaxCode || v != math.Trunc(v) {
			t.Fatalf("raw code %g is not a 14-bit code", v)
		}
	}
}

func TestBoardInvalidCodes(t *testing.T) {
	b := NewBoard(0)
	if b.RangeWrite(4) == nil || b.ModeWrite(2) == nil || b.TriggerModeWrite(4) == nil {
		t.Fatalf("invalid codes accepted")
	}
}

func TestBoardRealtimeStop(t *testing.T) {
	b := NewBoard(0)
	b.Realtime = true
	if err := b.ScanStart(0x01, 1000, 10, device.OptsDefault); err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		b.ScanStop()
	}()
	start := time.Now()
	buf, err := b.ScanRead(1000, -1)
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 5*time.Second || len(buf) >= 1000 {
		t.Fatalf("read did not return early: %d samples", len(buf))
	}
}

func TestAcquireWithBoard(t *testing.T) {
	a := scan.NewAcquirer(NewBoard(0))
	s := config.NewDefaultScanSettings()
	s.Channels = &config.ChannelsConfig{CH1H: true, CH3L: true, CH0L: true}
	ds, fresh, err := a.Acquire(s)
	if err != nil || !fresh {
		t.Fatalf("Acquire = %v, %v", fresh, err)
	}
	if len(ds.Series) != 3 || len(ds.Series[0]) != config.DefaultNumSamples {
		t.Fatalf("got %d series of %d samples", len(ds.Series), len(ds.Series[0]))
	}
	if ds.Labels[0] != "CH1H" || ds.Labels[1] != "CH0L" || ds.Labels[2] != "CH3L" {
		t.Fatalf("labels = %v", ds.Labels)
	}
	// every channel starts at its own phase
	for j, ch := range []int{1, 4, 7} {
		want := 9 * math.Sin(float64(ch)*math.Pi/device.Nch)
		if math.Abs(ds.Series[j][0]-want) > 1e-9 {
			t.Fatalf("series %d starts at %g, want %g", j, ds.Series[j][0], want)
		}
	}
}
