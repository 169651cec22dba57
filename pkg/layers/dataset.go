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
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// DatasetLayerNum identifies the layer
	DatasetLayerNum = 2001
	// DatasetMagic appears in the beginning of each dataset frame ("MCC1")
	DatasetMagic = 0x3143434d
	// DatasetHeaderSize is the size of the fixed part of the frame
	DatasetHeaderSize = 48
	// DatasetCrcSize is the size of crc32 tail
	DatasetCrcSize = 4
	// DatasetMaxFrameSize protects readers from garbage length fields
	DatasetMaxFrameSize = 64 << 20
)

// DatasetLayer is one acquired dataset as it is stored in data files.
// All fields are little endian.
//
//	0  magic       uint32
//	4  length      uint32 (whole frame including crc)
//	8  seq         uint64
//	16 timestamp   int64  (unix nanoseconds)
//	24 mask        uint8
//	25 options     uint8
//	26 nch         uint16
//	28 count       uint32 (samples per channel)
//	32 start       float64
//	40 step        float64
//	48 labels      nch * (uint8 length + bytes)
//	   samples     nch * count float64, channel after channel
//	   crc         uint32 (crc32 IEEE of everything before)
type DatasetLayer struct {
	layers.BaseLayer
	Seq       uint64
	Timestamp int64
	Mask      uint8
	Options   uint8
	Labels    []string
	Start     float64
	Step      float64
	Count     uint32
	Series    [][]float64
	Crc       uint32
}

var DatasetLayerType = gopacket.RegisterLayerType(DatasetLayerNum,
	gopacket.LayerTypeMetadata{Name: "DatasetLayerType", Decoder: gopacket.DecodeFunc(DecodeDatasetLayer)})

// LayerType returns the type of the Dataset layer in the layer catalog
func (d *DatasetLayer) LayerType() gopacket.LayerType {
	return DatasetLayerType
}

// Size returns the length of the serialized frame in bytes
func (d *DatasetLayer) Size() int {
	size := DatasetHeaderSize + DatasetCrcSize
	for _, label := range d.Labels {
		size += 1 + len(label)
	}
	return size + len(d.Labels)*int(d.Count)*8
}

func (d *DatasetLayer) validate() error {
	if len(d.Series) != len(d.Labels) {
		return fmt.Errorf("%d series for %d labels", len(d.Series), len(d.Labels))
	}
	for i, s := range d.Series {
		if len(s) != int(d.Count) {
			return fmt.Errorf("series %d has %d samples, want %d", i, len(s), d.Count)
		}
	}
	for _, label := range d.Labels {
		if len(label) > math.MaxUint8 {
			return fmt.Errorf("label %q is too long", label)
		}
	}
	return nil
}

// SerializeTo writes the dataset frame to the SerializeBuffer
func (d *DatasetLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if err := d.validate(); err != nil {
		return err
	}
	size := d.Size()
	buf, err := b.AppendBytes(size)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[0:4], DatasetMagic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(size))
	binary.LittleEndian.PutUint64(buf[8:16], d.Seq)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(d.Timestamp))
	buf[24] = d.Mask
	buf[25] = d.Options
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(d.Labels)))
	binary.LittleEndian.PutUint32(buf[28:32], d.Count)
	binary.LittleEndian.PutUint64(buf[32:40], math.Float64bits(d.Start))
	binary.LittleEndian.PutUint64(buf[40:48], math.Float64bits(d.Step))
	offset := DatasetHeaderSize
	for _, label := range d.Labels {
		buf[offset] = uint8(len(label))
		copy(buf[offset+1:], label)
		offset += 1 + len(label)
	}
	for _, s := range d.Series {
		for _, v := range s {
			binary.LittleEndian.PutUint64(buf[offset:offset+8], math.Float64bits(v))
			offset += 8
		}
	}
	d.Crc = crc32.ChecksumIEEE(buf[:offset])
	binary.LittleEndian.PutUint32(buf[offset:offset+4], d.Crc)
	return nil
}

func (d *DatasetLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < DatasetHeaderSize+DatasetCrcSize {
		df.SetTruncated()
		return fmt.Errorf("Dataset frame too short: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != DatasetMagic {
		return fmt.Errorf("Wrong dataset magic: %x", magic)
	}
	size := int(binary.LittleEndian.Uint32(data[4:8]))
	if size > len(data) || size < DatasetHeaderSize+DatasetCrcSize {
		df.SetTruncated()
		return fmt.Errorf("Dataset frame length %d, have %d bytes", size, len(data))
	}
	d.Crc = binary.LittleEndian.Uint32(data[size-4 : size])
	if crc := crc32.ChecksumIEEE(data[:size-4]); crc != d.Crc {
		return fmt.Errorf("Dataset crc mismatch: %x != %x", crc, d.Crc)
	}

	d.Seq = binary.LittleEndian.Uint64(data[8:16])
	d.Timestamp = int64(binary.LittleEndian.Uint64(data[16:24]))
	d.Mask = data[24]
	d.Options = data[25]
	nch := int(binary.LittleEndian.Uint16(data[26:28]))
	d.Count = binary.LittleEndian.Uint32(data[28:32])
	d.Start = math.Float64frombits(binary.LittleEndian.Uint64(data[32:40]))
	d.Step = math.Float64frombits(binary.LittleEndian.Uint64(data[40:48]))

	body := data[DatasetHeaderSize : size-4]
	offset := 0
	d.Labels = make([]string, 0, nch)
	for i := 0; i < nch; i++ {
		if offset >= len(body) {
			return fmt.Errorf("Dataset labels truncated")
		}
		l := int(body[offset])
		if offset+1+l > len(body) {
			return fmt.Errorf("Dataset labels truncated")
		}
		d.Labels = append(d.Labels, string(body[offset+1:offset+1+l]))
		offset += 1 + l
	}
	if len(body)-offset != nch*int(d.Count)*8 {
		return fmt.Errorf("Dataset has %d sample bytes, want %d", len(body)-offset, nch*int(d.Count)*8)
	}
	d.Series = make([][]float64, nch)
	for i := range d.Series {
		d.Series[i] = make([]float64, d.Count)
		for j := range d.Series[i] {
			d.Series[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(body[offset : offset+8]))
			offset += 8
		}
	}

	d.BaseLayer = layers.BaseLayer{
		Contents: data[:size],
		Payload:  data[size:],
	}
	return nil
}

func DecodeDatasetLayer(data []byte, p gopacket.PacketBuilder) error {
	d := &DatasetLayer{}
	err := d.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(d)
	return nil
}

// SerializeDataset returns the frame bytes of a dataset
func SerializeDataset(d *DatasetLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseDataset decodes one frame
func ParseDataset(data []byte) (*DatasetLayer, error) {
	packet := gopacket.NewPacket(data, DatasetLayerType, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, errLayer.Error()
	}
	layer := packet.Layer(DatasetLayerType)
	if layer == nil {
		return nil, fmt.Errorf("No dataset layer in frame")
	}
	return layer.(*DatasetLayer), nil
}

// ReadDataset reads the next frame from a stream of frames. io.EOF is
// returned at the end of the stream.
func ReadDataset(r io.Reader) (*DatasetLayer, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("Truncated dataset frame header")
		}
		return nil, err
	}
	size := binary.LittleEndian.Uint32(header[4:8])
	if size < DatasetHeaderSize+DatasetCrcSize || size > DatasetMaxFrameSize {
		return nil, fmt.Errorf("Wrong dataset frame length: %d", size)
	}
	frame := make([]byte, size)
	copy(frame, header)
	if _, err := io.ReadFull(r, frame[8:]); err != nil {
		return nil, fmt.Errorf("Truncated dataset frame: %w", err)
	}
	return ParseDataset(frame)
}
