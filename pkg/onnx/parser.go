package onnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ParseFile reads and decodes an ONNX model file.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a serialized ONNX model.
func Parse(data []byte) (*ModelProto, error) {
	d := &decoder{data: data}
	model := &ModelProto{}
	if err := d.model(model); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return model, nil
}

// decoder is a minimal protobuf wire-format reader. It understands just
// enough of the format to walk the ONNX message tree and skips every
// field it does not model.
type decoder struct {
	data []byte
	pos  int
}

// Protobuf wire types.
const (
	wireVarint = 0
	wire64Bit  = 1
	wireBytes  = 2
	wire32Bit  = 5
)

func (d *decoder) model(m *ModelProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			m.IRVersion, err = d.varint()
		case 2:
			m.ProducerName, err = d.str()
		case 3:
			m.ProducerVersion, err = d.str()
		case 4:
			m.Domain, err = d.str()
		case 5:
			m.ModelVersion, err = d.varint()
		case 6:
			m.DocString, err = d.str()
		case 7:
			m.Graph = &GraphProto{}
			err = d.embedded(func(sub *decoder) error { return sub.graph(m.Graph) })
		case 8:
			var opset OperatorSetID
			err = d.embedded(func(sub *decoder) error { return sub.opsetID(&opset) })
			m.OpsetImport = append(m.OpsetImport, opset)
		case 14:
			var entry StringStringEntry
			err = d.embedded(func(sub *decoder) error { return sub.metadataEntry(&entry) })
			m.MetadataProps = append(m.MetadataProps, entry)
		case 25:
			var fn FunctionProto
			err = d.embedded(func(sub *decoder) error { return sub.function(&fn) })
			m.Functions = append(m.Functions, fn)
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) graph(g *GraphProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			var node NodeProto
			err = d.embedded(func(sub *decoder) error { return sub.node(&node) })
			g.Nodes = append(g.Nodes, node)
		case 2:
			g.Name, err = d.str()
		case 5:
			var tensor TensorProto
			err = d.embedded(func(sub *decoder) error { return sub.tensor(&tensor) })
			g.Initializers = append(g.Initializers, tensor)
		case 10:
			g.DocString, err = d.str()
		case 11:
			var vi ValueInfoProto
			err = d.embedded(func(sub *decoder) error { return sub.valueInfo(&vi) })
			g.Inputs = append(g.Inputs, vi)
		case 12:
			var vi ValueInfoProto
			err = d.embedded(func(sub *decoder) error { return sub.valueInfo(&vi) })
			g.Outputs = append(g.Outputs, vi)
		case 13:
			var vi ValueInfoProto
			err = d.embedded(func(sub *decoder) error { return sub.valueInfo(&vi) })
			g.ValueInfo = append(g.ValueInfo, vi)
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) function(f *FunctionProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			f.Name, err = d.str()
		case 4:
			var s string
			s, err = d.str()
			f.Inputs = append(f.Inputs, s)
		case 5:
			var s string
			s, err = d.str()
			f.Outputs = append(f.Outputs, s)
		case 6:
			var s string
			s, err = d.str()
			f.Attributes = append(f.Attributes, s)
		case 7:
			var node NodeProto
			err = d.embedded(func(sub *decoder) error { return sub.node(&node) })
			f.Nodes = append(f.Nodes, node)
		case 8:
			f.DocString, err = d.str()
		case 9:
			var opset OperatorSetID
			err = d.embedded(func(sub *decoder) error { return sub.opsetID(&opset) })
			f.OpsetImport = append(f.OpsetImport, opset)
		case 10:
			f.Domain, err = d.str()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) node(n *NodeProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			var s string
			s, err = d.str()
			n.Inputs = append(n.Inputs, s)
		case 2:
			var s string
			s, err = d.str()
			n.Outputs = append(n.Outputs, s)
		case 3:
			n.Name, err = d.str()
		case 4:
			n.OpType, err = d.str()
		case 5:
			var attr AttributeProto
			err = d.embedded(func(sub *decoder) error { return sub.attribute(&attr) })
			n.Attributes = append(n.Attributes, attr)
		case 6:
			n.DocString, err = d.str()
		case 7:
			n.Domain, err = d.str()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) attribute(a *AttributeProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			a.Name, err = d.str()
		case 2:
			a.F, err = d.float32()
		case 3:
			a.I, err = d.varint()
		case 4:
			a.S, err = d.bytes()
		case 5:
			a.T = &TensorProto{}
			err = d.embedded(func(sub *decoder) error { return sub.tensor(a.T) })
		case 6:
			a.G = &GraphProto{}
			err = d.embedded(func(sub *decoder) error { return sub.graph(a.G) })
		case 7:
			a.Floats, err = d.packedFloats(a.Floats, wt)
		case 8:
			a.Ints, err = d.packedInts(a.Ints, wt)
		case 9:
			var b []byte
			b, err = d.bytes()
			a.Strings = append(a.Strings, b)
		case 10:
			var tensor TensorProto
			err = d.embedded(func(sub *decoder) error { return sub.tensor(&tensor) })
			a.Tensors = append(a.Tensors, tensor)
		case 11:
			var g GraphProto
			err = d.embedded(func(sub *decoder) error { return sub.graph(&g) })
			a.Graphs = append(a.Graphs, g)
		case 13:
			a.DocString, err = d.str()
		case 20:
			var v int64
			v, err = d.varint()
			a.Type = int32(v)
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) tensor(t *TensorProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			t.Dims, err = d.packedInts(t.Dims, wt)
		case 2:
			var v int64
			v, err = d.varint()
			t.DataType = int32(v)
		case 4:
			t.FloatData, err = d.packedFloats(t.FloatData, wt)
		case 5:
			var vals []int64
			vals, err = d.packedInts(nil, wt)
			for _, v := range vals {
				t.Int32Data = append(t.Int32Data, int32(v))
			}
		case 7:
			t.Int64Data, err = d.packedInts(t.Int64Data, wt)
		case 8:
			t.Name, err = d.str()
		case 9:
			t.RawData, err = d.bytes()
		case 12:
			t.DocString, err = d.str()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) valueInfo(vi *ValueInfoProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			vi.Name, err = d.str()
		case 2:
			vi.Type = &TypeProto{}
			err = d.embedded(func(sub *decoder) error { return sub.typeProto(vi.Type) })
		case 3:
			vi.DocString, err = d.str()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) typeProto(t *TypeProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			t.TensorType = &TensorTypeProto{}
			err = d.embedded(func(sub *decoder) error { return sub.tensorType(t.TensorType) })
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) tensorType(t *TensorTypeProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			var v int64
			v, err = d.varint()
			t.ElemType = int32(v)
		case 2:
			t.Shape = &TensorShapeProto{}
			err = d.embedded(func(sub *decoder) error { return sub.shape(t.Shape) })
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) shape(s *TensorShapeProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			var dim DimensionProto
			err = d.embedded(func(sub *decoder) error { return sub.dimension(&dim) })
			s.Dims = append(s.Dims, dim)
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) dimension(dim *DimensionProto) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			dim.DimValue, err = d.varint()
		case 2:
			dim.DimParam, err = d.str()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) opsetID(o *OperatorSetID) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			o.Domain, err = d.str()
		case 2:
			o.Version, err = d.varint()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

func (d *decoder) metadataEntry(e *StringStringEntry) error {
	return d.fields(func(num, wt int) error {
		var err error
		switch num {
		case 1:
			e.Key, err = d.str()
		case 2:
			e.Value, err = d.str()
		default:
			err = d.skip(wt)
		}
		return err
	})
}

// fields drives the field loop, dispatching each tag to fn.
func (d *decoder) fields(fn func(num, wt int) error) error {
	for d.pos < len(d.data) {
		num, wt, err := d.tag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(num, wt); err != nil {
			return err
		}
	}
	return nil
}

// embedded reads a length-delimited sub-message and decodes it with fn.
func (d *decoder) embedded(fn func(*decoder) error) error {
	data, err := d.bytes()
	if err != nil {
		return err
	}
	return fn(&decoder{data: data})
}

func (d *decoder) tag() (num, wt int, err error) {
	if d.pos >= len(d.data) {
		return 0, 0, io.EOF
	}
	v, err := d.varint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), int(v & 0x7), nil
}

func (d *decoder) varint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if d.pos >= len(d.data) {
			return 0, io.EOF
		}
		b := d.data[d.pos]
		d.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil
}

func (d *decoder) bytes() ([]byte, error) {
	length, err := d.varint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := d.pos + int(length)
	if end > len(d.data) {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.data[d.pos:end]
	d.pos = end
	return b, nil
}

func (d *decoder) str() (string, error) {
	b, err := d.bytes()
	return string(b), err
}

func (d *decoder) float32() (float32, error) {
	if d.pos+4 > len(d.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return math.Float32frombits(bits), nil
}

// packedInts reads a repeated int64 field, packed or not.
func (d *decoder) packedInts(dst []int64, wt int) ([]int64, error) {
	if wt != wireBytes {
		v, err := d.varint()
		if err != nil {
			return dst, err
		}
		return append(dst, v), nil
	}
	data, err := d.bytes()
	if err != nil {
		return dst, err
	}
	sub := &decoder{data: data}
	for sub.pos < len(sub.data) {
		v, err := sub.varint()
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// packedFloats reads a repeated float field, packed or not.
func (d *decoder) packedFloats(dst []float32, wt int) ([]float32, error) {
	if wt != wireBytes {
		v, err := d.float32()
		if err != nil {
			return dst, err
		}
		return append(dst, v), nil
	}
	data, err := d.bytes()
	if err != nil {
		return dst, err
	}
	for i := 0; i+4 <= len(data); i += 4 {
		bits := binary.LittleEndian.Uint32(data[i:])
		dst = append(dst, math.Float32frombits(bits))
	}
	return dst, nil
}

func (d *decoder) skip(wt int) error {
	switch wt {
	case wireVarint:
		_, err := d.varint()
		return err
	case wire64Bit:
		if d.pos+8 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 8
		return nil
	case wireBytes:
		_, err := d.bytes()
		return err
	case wire32Bit:
		if d.pos+4 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wt)
	}
}
