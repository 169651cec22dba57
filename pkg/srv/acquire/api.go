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

package acquire

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
	"jinr.ru/greenlab/go-mcc128/pkg/srv"
)

const (
	DataFileExt = ".dat"
)

// ScanResult is the response to a scan request. Fresh is false when the
// board returned no data and Dataset is the previous one.
type ScanResult struct {
	Fresh   bool          `json:"fresh"`
	Dataset *scan.Dataset `json:"dataset"`
}

type BoardState struct {
	device.RangeModeState
	Busy        bool      `json:"busy"`
	PersistFile string    `json:"persist_file,omitempty"`
	Counters    *Counters `json:"counters"`
}

type RangeSetup struct {
	Range int `json:"range"`
}

type ModeSetup struct {
	Mode string `json:"mode"`
}

type Persist struct {
	Dir        string `json:"dir"`
	FilePrefix string `json:"file_prefix"`
}

func dataFileName(dir, filePrefix string) string {
	return filepath.Join(dir, filePrefix+DataFileExt)
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func (s *AcquisitionServer) configureRouter() {
	s.Router = mux.NewRouter()
	s.Router.HandleFunc(SwaggerPath, swaggerHandler(s.swagger)).Methods("GET")
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/scan", s.handleScan()).Methods("POST")
	subRouter.HandleFunc("/stop", s.handleStop()).Methods("POST")
	subRouter.HandleFunc("/dataset", s.handleDataset()).Methods("GET")
	subRouter.HandleFunc("/state", s.handleState()).Methods("GET")
	subRouter.HandleFunc("/{setting:range|mode|trigger}", s.handleSetup()).Methods("POST")
	subRouter.HandleFunc("/persist", s.handlePersist()).Methods("POST")
	subRouter.HandleFunc("/flush", s.handleFlush()).Methods("GET")
}

// scanSettings overrides the configured settings with the fields present in
// the request body. A channels object replaces the whole channel set.
func scanSettings(base *config.ScanSettings, body []byte) (*config.ScanSettings, error) {
	settings := base.Copy()
	if len(body) == 0 {
		return settings, nil
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if _, ok := fields["channels"]; ok {
		settings.Channels = &config.ChannelsConfig{}
	}
	if err := json.Unmarshal(body, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *AcquisitionServer) handleScan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings, err := scanSettings(s.Config.Scan, body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling scan request: %+v", settings)

		ds, fresh, err := s.Scan(settings)
		if err != nil {
			srv.Error(w, err)
			return
		}
		srv.WriteJSON(w, &ScanResult{Fresh: fresh, Dataset: ds})
	}
}

func (s *AcquisitionServer) handleStop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling stop request")
		if err := s.Stop(); err != nil {
			srv.Error(w, err)
		}
	}
}

func (s *AcquisitionServer) handleDataset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling dataset request")
		ds, err := s.state.GetDataset()
		if err != nil {
			srv.Error(w, err)
			return
		}
		srv.WriteJSON(w, ds)
	}
}

func (s *AcquisitionServer) handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs, err := s.BoardState()
		if err != nil {
			srv.Error(w, err)
			return
		}
		srv.WriteJSON(w, bs)
	}
}

func (s *AcquisitionServer) handleSetup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling setup request: %s", vars["setting"])

		var apply func(c *device.Controller) error
		switch vars["setting"] {
		case "range":
			setup := &RangeSetup{}
			if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			apply = func(c *device.Controller) error { return c.SetRange(setup.Range) }
		case "mode", "trigger":
			setup := &ModeSetup{}
			if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if vars["setting"] == "mode" {
				apply = func(c *device.Controller) error { return c.SetMode(setup.Mode) }
			} else {
				apply = func(c *device.Controller) error { return c.SetTrigger(setup.Mode) }
			}
		default:
			srv.Error(w, srv.ErrUnknownOperation{What: "Wrong setting. Must be one of range/mode/trigger"})
			return
		}

		if err := s.Setup(apply); err != nil {
			srv.Error(w, err)
		}
	}
}

func (s *AcquisitionServer) handlePersist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		persist := &Persist{}
		err := json.NewDecoder(r.Body).Decode(persist)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling persist request: dir: %s filePrefix: %s", persist.Dir, persist.FilePrefix)

		if err = s.Persist(persist.Dir, persist.FilePrefix); err != nil {
			srv.Error(w, err)
		}
	}
}

func (s *AcquisitionServer) handleFlush() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling flush request")
		if err := s.Flush(); err != nil {
			srv.Error(w, err)
		}
	}
}
