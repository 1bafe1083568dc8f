package onnx

// Hand-written ONNX protobuf message structs. Only the fields the
// extraction pipeline consumes are modeled; unknown fields are skipped
// by the wire decoder.

// ModelProto is the top-level serialized model: one main graph plus a
// collection of function definitions.
type ModelProto struct {
	IRVersion       int64
	OpsetImport     []OperatorSetID
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	MetadataProps   []StringStringEntry
	Functions       []FunctionProto
}

// GraphProto is one computation graph: operator nodes, initializer
// constants, and type annotations for inputs, outputs and intermediates.
type GraphProto struct {
	Name         string
	Nodes        []NodeProto
	Initializers []TensorProto
	Inputs       []ValueInfoProto
	Outputs      []ValueInfoProto
	ValueInfo    []ValueInfoProto
	DocString    string
}

// FunctionProto is a named, domain-scoped operator definition whose body
// is a list of nodes over positional input/output value names.
type FunctionProto struct {
	Name        string
	Domain      string
	Inputs      []string
	Outputs     []string
	Attributes  []string
	Nodes       []NodeProto
	OpsetImport []OperatorSetID
	DocString   string
}

// NodeProto is a single operator invocation.
type NodeProto struct {
	Name       string
	OpType     string
	Domain     string
	Inputs     []string
	Outputs    []string
	Attributes []AttributeProto
	DocString  string
}

// TensorProto carries an initializer constant.
type TensorProto struct {
	Name      string
	DataType  int32
	Dims      []int64
	RawData   []byte
	FloatData []float32
	Int32Data []int32
	Int64Data []int64
	DocString string
}

// ValueInfoProto names a value and declares its type/shape.
type ValueInfoProto struct {
	Name      string
	Type      *TypeProto
	DocString string
}

// TypeProto describes a value type. Only tensor types are modeled.
type TypeProto struct {
	TensorType *TensorTypeProto
}

// TensorTypeProto describes element type and shape.
type TensorTypeProto struct {
	ElemType int32
	Shape    *TensorShapeProto
}

// TensorShapeProto is an ordered list of dimensions.
type TensorShapeProto struct {
	Dims []DimensionProto
}

// DimensionProto is one dimension: a static value or a symbolic name.
type DimensionProto struct {
	DimValue int64
	DimParam string
}

// AttributeProto is one node attribute. Exactly one payload field is
// populated, selected by Type.
type AttributeProto struct {
	Name      string
	Type      int32
	F         float32
	I         int64
	S         []byte
	T         *TensorProto
	G         *GraphProto
	Floats    []float32
	Ints      []int64
	Strings   [][]byte
	Tensors   []TensorProto
	Graphs    []GraphProto
	DocString string
}

// OperatorSetID pins an operator-set version for a domain.
type OperatorSetID struct {
	Domain  string
	Version int64
}

// StringStringEntry is a key-value metadata pair.
type StringStringEntry struct {
	Key   string
	Value string
}

// Attribute kinds (AttributeProto.Type).
const (
	AttributeUndefined = 0
	AttributeFloat     = 1
	AttributeInt       = 2
	AttributeString    = 3
	AttributeTensor    = 4
	AttributeGraph     = 5
	AttributeFloats    = 6
	AttributeInts      = 7
	AttributeStrings   = 8
	AttributeTensors   = 9
	AttributeGraphs    = 10
)

// Tensor element types (TensorProto.DataType).
const (
	TensorUndefined  = 0
	TensorFloat      = 1
	TensorUint8      = 2
	TensorInt8       = 3
	TensorUint16     = 4
	TensorInt16      = 5
	TensorInt32      = 6
	TensorInt64      = 7
	TensorString     = 8
	TensorBool       = 9
	TensorFloat16    = 10
	TensorDouble     = 11
	TensorUint32     = 12
	TensorUint64     = 13
	TensorComplex64  = 14
	TensorComplex128 = 15
	TensorBfloat16   = 16
)

// ElementTypeName returns the ONNX name for a tensor element type.
func ElementTypeName(t int32) string {
	switch t {
	case TensorFloat:
		return "FLOAT"
	case TensorUint8:
		return "UINT8"
	case TensorInt8:
		return "INT8"
	case TensorUint16:
		return "UINT16"
	case TensorInt16:
		return "INT16"
	case TensorInt32:
		return "INT32"
	case TensorInt64:
		return "INT64"
	case TensorString:
		return "STRING"
	case TensorBool:
		return "BOOL"
	case TensorFloat16:
		return "FLOAT16"
	case TensorDouble:
		return "DOUBLE"
	case TensorUint32:
		return "UINT32"
	case TensorUint64:
		return "UINT64"
	case TensorComplex64:
		return "COMPLEX64"
	case TensorComplex128:
		return "COMPLEX128"
	case TensorBfloat16:
		return "BFLOAT16"
	default:
		return "UNDEFINED"
	}
}
