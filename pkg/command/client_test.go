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
	"net"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/device/sim"
	"jinr.ru/greenlab/go-mcc128/pkg/srv/acquire"
)

func newTestClient(t *testing.T) *ApiClient {
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(dir, config.DBFile)
	cfg.DataDir = filepath.Join(dir, config.DataDir)
	cfg.Scan.NumSamples = 20

	s, err := acquire.NewAcquisitionServer(context.Background(), cfg, sim.NewBoard(0))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})

	host, port, err := net.SplitHostPort(ts.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	clientCfg := config.NewDefaultConfig()
	clientCfg.Address = host
	clientCfg.ApiPort, _ = strconv.Atoi(port)
	return NewApiClient(clientCfg)
}

func TestClient(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.Dataset(); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("Dataset before scan error = %v, want 404", err)
	}
	if err := c.SetRange(5); err != nil {
		t.Fatalf("SetRange error: %v", err)
	}
	if err := c.SetMode("SINGLE_ENDED"); err != nil {
		t.Fatalf("SetMode error: %v", err)
	}
	if err := c.SetTrigger("RISING_EDGE"); err != nil {
		t.Fatalf("SetTrigger error: %v", err)
	}
	if err := c.SetRange(7); err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("SetRange(7) error = %v", err)
	}

	settings := config.NewDefaultScanSettings()
	settings.NumSamples = 20
	settings.Range = 5
	settings.Mode = "SINGLE_ENDED"
	settings.Channels.CH3H = true
	result, err := c.Scan(settings)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if !result.Fresh || len(result.Dataset.Series) != 2 || len(result.Dataset.Series[0]) != 20 {
		t.Fatalf("scan result = %+v", result)
	}

	ds, err := c.Dataset()
	if err != nil || ds.Seq != result.Dataset.Seq {
		t.Fatalf("Dataset = %+v, %v", ds, err)
	}

	bs, err := c.State()
	if err != nil {
		t.Fatalf("State error: %v", err)
	}
	if bs.Range != device.Range5V || bs.Mode != device.ModeSingleEnded || bs.Counters.Fresh != 1 {
		t.Fatalf("state = %+v", bs)
	}

	if err := c.Persist("", "client"); err != nil {
		t.Fatalf("Persist error: %v", err)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}
