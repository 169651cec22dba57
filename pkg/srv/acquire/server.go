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
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-openapi/loads"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-mcc128/pkg/config"
	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
	"jinr.ru/greenlab/go-mcc128/pkg/srv"
)

// AcquisitionServer exposes one board over HTTP. Scans and range, mode or
// trigger changes are serialized; requests arriving while a scan runs are
// rejected. Only stop requests go through during a scan.
type AcquisitionServer struct {
	context.Context
	*config.Config
	*mux.Router
	acq     *scan.Acquirer
	state   *State
	swagger *loads.Document

	// mu is held for the whole duration of a scan
	mu sync.Mutex

	writerMu sync.Mutex
	writer   *Writer
}

func NewAcquisitionServer(ctx context.Context, cfg *config.Config, hw device.Hardware) (*AcquisitionServer, error) {
	log.Info("Initializing acquisition server with address: %s port: %d", cfg.Address, cfg.ApiPort)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := LoadSwagger()
	if err != nil {
		return nil, fmt.Errorf("Error while loading API description: %w", err)
	}

	state, err := NewState(cfg.DBPath, cfg.HatAddress)
	if err != nil {
		return nil, err
	}

	acq := scan.NewAcquirer(hw)
	last, err := state.GetDataset()
	switch {
	case err == nil:
		log.Info("Restored dataset %d from %s", last.Seq, cfg.DBPath)
		acq.Restore(last)
	case errors.As(err, &srv.ErrNotFound{}):
	default:
		log.Warning("Can not restore last dataset: %s", err)
	}

	s := &AcquisitionServer{
		Context: ctx,
		Config:  cfg,
		acq:     acq,
		state:   state,
		swagger: doc,
	}
	s.configureRouter()
	return s, nil
}

// Handler returns the router wrapped with access logging, panic recovery and API docs
func (s *AcquisitionServer) Handler() http.Handler {
	h := withDocs(s.Router, s.swagger.Spec().Info.Title)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(log.Writer(), h)
}

func (s *AcquisitionServer) Run() error {
	defer s.Close()
	addr := fmt.Sprintf("%s:%d", s.Config.Address, s.Config.ApiPort)
	log.Info("Starting acquisition server: %s", addr)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    addr,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-s.Context.Done():
		s.acq.Stop()
		httpServer.Close()
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}

// Close stops the running scan and releases the state database and the data file
func (s *AcquisitionServer) Close() {
	if err := s.acq.Stop(); err != nil {
		log.Error("Error while stopping scan: %s", err)
	}
	if err := s.Flush(); err != nil {
		log.Error("Error while flushing data file: %s", err)
	}
	s.state.Close()
}

// Scan runs one acquisition with the given settings
func (s *AcquisitionServer) Scan(settings *config.ScanSettings) (*scan.Dataset, bool, error) {
	if !s.mu.TryLock() {
		return nil, false, scan.ErrBusy{}
	}
	defer s.mu.Unlock()

	ds, fresh, err := s.acq.Acquire(settings)
	counters := []string{CounterScans}
	switch {
	case err != nil:
		counters = append(counters, CounterFailed)
	case fresh:
		counters = append(counters, CounterFresh)
	default:
		counters = append(counters, CounterEmpty)
	}
	if cerr := s.state.Increment(counters...); cerr != nil {
		log.Error("Error while updating counters: %s", cerr)
	}
	if err != nil || !fresh {
		return ds, fresh, err
	}

	if err := s.state.SetDataset(ds); err != nil {
		log.Error("Error while storing dataset %d: %s", ds.Seq, err)
	}
	s.writerMu.Lock()
	defer s.writerMu.Unlock()
	if s.writer != nil {
		if err := s.writer.Write(ds); err != nil {
			log.Error("Error while writing dataset %d to %s: %s", ds.Seq, s.writer.Name(), err)
		}
	}
	return ds, fresh, nil
}

// Stop cancels the running scan
func (s *AcquisitionServer) Stop() error {
	return s.acq.Stop()
}

// Setup applies a range, mode or trigger change unless a scan is running
func (s *AcquisitionServer) Setup(apply func(c *device.Controller) error) error {
	if !s.mu.TryLock() {
		return scan.ErrBusy{}
	}
	defer s.mu.Unlock()
	return apply(s.acq.Controller())
}

// BoardState ...
func (s *AcquisitionServer) BoardState() (*BoardState, error) {
	counters, err := s.state.GetCounters()
	if err != nil {
		return nil, err
	}
	bs := &BoardState{
		RangeModeState: s.acq.Controller().State(),
		Busy:           s.acq.Busy(),
		Counters:       counters,
	}
	s.writerMu.Lock()
	if s.writer != nil {
		bs.PersistFile = s.writer.Name()
	}
	s.writerMu.Unlock()
	return bs, nil
}

// Persist opens a new data file for fresh datasets, replacing the current one
func (s *AcquisitionServer) Persist(dir, filePrefix string) error {
	if filePrefix == "" {
		return srv.ErrUnknownOperation{What: "file prefix is empty"}
	}
	if dir == "" {
		dir = s.Config.DataDir
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if err := mkdirAll(dir); err != nil {
		return err
	}
	w, err := NewWriter(dataFileName(dir, filePrefix))
	if err != nil {
		return err
	}
	log.Info("Persisting datasets to %s", w.Name())
	s.writerMu.Lock()
	s.writer = w
	s.writerMu.Unlock()
	return nil
}

// Flush closes the data file if there is one
func (s *AcquisitionServer) Flush() error {
	s.writerMu.Lock()
	defer s.writerMu.Unlock()
	if s.writer == nil {
		return nil
	}
	log.Info("Flushing data file %s", s.writer.Name())
	err := s.writer.Flush()
	s.writer = nil
	return err
}
