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

package layers

import (
	"bytes"
	"io"
	"reflect"
	"testing"
)

func testDataset() *DatasetLayer {
	return &DatasetLayer{
		Seq:       7,
		Timestamp: 1700000000123456789,
		Mask:      65,
		Options:   8,
		Labels:    []string{"CH0H", "CH2L"},
		Start:     0,
		Step:      0.01,
		Count:     3,
		Series:    [][]float64{{1, 3, 5}, {2, 4, -6.5}},
	}
}

func TestDatasetFrame(t *testing.T) {
	d := testDataset()
	data, err := SerializeDataset(d)
	if err != nil {
		t.Fatalf("SerializeDataset error: %v", err)
	}
	if len(data) != d.Size() {
		t.Fatalf("frame length %d, Size() %d", len(data), d.Size())
	}
	got, err := ParseDataset(data)
	if err != nil {
		t.Fatalf("ParseDataset error: %v", err)
	}
	if got.Seq != d.Seq || got.Timestamp != d.Timestamp || got.Mask != d.Mask || got.Options != d.Options ||
		got.Step != d.Step || got.Count != d.Count || got.Crc != d.Crc {
		t.Fatalf("header mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Labels, d.Labels) || !reflect.DeepEqual(got.Series, d.Series) {
		t.Fatalf("body mismatch: %v %v", got.Labels, got.Series)
	}
}

func TestDatasetCorrupted(t *testing.T) {
	data, err := SerializeDataset(testDataset())
	if err != nil {
		t.Fatal(err)
	}
	data[DatasetHeaderSize+2] ^= 0xff
	if _, err := ParseDataset(data); err == nil {
		t.Fatalf("corrupted frame decoded")
	}
	if _, err := ParseDataset(data[:20]); err == nil {
		t.Fatalf("short frame decoded")
	}
}

func TestDatasetInconsistent(t *testing.T) {
	d := testDataset()
	d.Series[1] = d.Series[1][:2]
	if _, err := SerializeDataset(d); err == nil {
		t.Fatalf("series shorter than Count serialized")
	}
}

func TestReadDatasetStream(t *testing.T) {
	var stream bytes.Buffer
	for seq := uint64(1); seq <= 3; seq++ {
		d := testDataset()
		d.Seq = seq
		data, err := SerializeDataset(d)
		if err != nil {
			t.Fatal(err)
		}
		stream.Write(data)
	}
	for seq := uint64(1); seq <= 3; seq++ {
		d, err := ReadDataset(&stream)
		if err != nil {
			t.Fatalf("ReadDataset %d error: %v", seq, err)
		}
		if d.Seq != seq {
			t.Fatalf("seq = %d, want %d", d.Seq, seq)
		}
	}
	if _, err := ReadDataset(&stream); err != io.EOF {
		t.Fatalf("error at end of stream = %v, want io.EOF", err)
	}
}
