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
	"os"
	"time"

	"jinr.ru/greenlab/go-mcc128/pkg/device"
	"jinr.ru/greenlab/go-mcc128/pkg/layers"
	"jinr.ru/greenlab/go-mcc128/pkg/log"
	"jinr.ru/greenlab/go-mcc128/pkg/scan"
)

// Writer appends dataset frames to a data file
type Writer struct {
	file *os.File
}

func NewWriter(filename string) (*Writer, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Error("Error while creating file: %s", filename)
		return nil, err
	}
	return &Writer{
		file: file,
	}, nil
}

// Name ...
func (w *Writer) Name() string {
	return w.file.Name()
}

func (w *Writer) Write(ds *scan.Dataset) error {
	data, err := layers.SerializeDataset(ToLayer(ds))
	if err != nil {
		return err
	}
	_, err = w.file.Write(data)
	return err
}

func (w *Writer) Flush() error {
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// ToLayer converts a dataset to its file representation
func ToLayer(ds *scan.Dataset) *layers.DatasetLayer {
	return &layers.DatasetLayer{
		Seq:       ds.Seq,
		Timestamp: ds.Timestamp.UnixNano(),
		Mask:      ds.Mask,
		Options:   uint8(ds.Options),
		Labels:    ds.Labels,
		Start:     ds.Axis.Start,
		Step:      ds.Axis.Step,
		Count:     ds.Axis.Count,
		Series:    ds.Series,
	}
}

// FromLayer ...
func FromLayer(d *layers.DatasetLayer) *scan.Dataset {
	return &scan.Dataset{
		Seq:       d.Seq,
		Timestamp: time.Unix(0, d.Timestamp),
		Mask:      d.Mask,
		Options:   device.OptionFlags(d.Options),
		Labels:    d.Labels,
		Axis:      scan.Axis{Start: d.Start, Step: d.Step, Count: d.Count},
		Series:    d.Series,
	}
}
