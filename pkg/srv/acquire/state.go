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
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
	"jinr.ru/greenlab/go-mcc128/pkg/srv"
)

const (
	BucketNamePrefix = "board_"
	LastDatasetKey   = "last_dataset"
	CounterScans     = "scans"
	CounterFresh     = "fresh"
	CounterEmpty     = "empty"
	CounterFailed    = "failed"
)

// Counters of scans made with a board
type Counters struct {
	Scans  uint64 `json:"scans"`
	Fresh  uint64 `json:"fresh"`
	Empty  uint64 `json:"empty"`
	Failed uint64 `json:"failed"`
}

// State keeps the last emitted dataset and scan counters of a board so
// they survive restarts of the server
type State struct {
	DB     *bbolt.DB
	bucket []byte
}

func NewState(path string, hatAddress int) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	bucket := []byte(bucketName(hatAddress))
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &State{
		DB:     db,
		bucket: bucket,
	}, nil
}

func bucketName(hatAddress int) string {
	return fmt.Sprintf("%s%d", BucketNamePrefix, hatAddress)
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Close ...
func (s *State) Close() {
	s.DB.Close()
}

// SetDataset ...
func (s *State) SetDataset(ds *scan.Dataset) error {
	log.Debug("Storing dataset: seq: %d", ds.Seq)
	data, err := yaml.Marshal(ds)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", s.bucket)
		}
		return b.Put([]byte(LastDatasetKey), data)
	})
}

// GetDataset returns srv.ErrNotFound if no dataset has been stored yet
func (s *State) GetDataset() (*scan.Dataset, error) {
	ds := &scan.Dataset{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", s.bucket)
		}
		data := b.Get([]byte(LastDatasetKey))
		if data == nil {
			return srv.ErrNotFound{What: "dataset"}
		}
		return yaml.Unmarshal(data, ds)
	}); err != nil {
		return nil, err
	}
	return ds, nil
}

// Increment adds one to the named counters
func (s *State) Increment(names ...string) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", s.bucket)
		}
		for _, name := range names {
			var value uint64
			if v := b.Get([]byte(name)); v != nil {
				value = binary.BigEndian.Uint64(v)
			}
			if err := b.Put([]byte(name), uint64ToByte(value+1)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCounters ...
func (s *State) GetCounters() (*Counters, error) {
	c := &Counters{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", s.bucket)
		}
		for name, dst := range map[string]*uint64{
			CounterScans:  &c.Scans,
			CounterFresh:  &c.Fresh,
			CounterEmpty:  &c.Empty,
			CounterFailed: &c.Failed,
		} {
			if v := b.Get([]byte(name)); v != nil {
				*dst = binary.BigEndian.Uint64(v)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return c, nil
}
