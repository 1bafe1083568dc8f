package extraction

import (
	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
)

// materializeAttribute converts one raw attribute into its canonical
// form. Plain kinds deep-convert to a value record with no recursion.
// Graph-valued kinds recursively extract each sub-graph when the engine
// is in recursive mode, and the value becomes the list of extracted
// network identifiers; in shallow mode the list stays empty and no
// extraction happens. Newly discovered networks (and everything found
// beneath them) are returned for the caller's accumulator.
func (x *extractor) materializeAttribute(attr *onnx.AttributeProto) (network.Attribute, []*network.Network, error) {
	switch attr.Type {
	case onnx.AttributeFloat:
		return network.Attribute{Kind: network.KindFloat, Float: float64(attr.F)}, nil, nil

	case onnx.AttributeInt:
		return network.Attribute{Kind: network.KindInt, Int: attr.I}, nil, nil

	case onnx.AttributeString:
		return network.Attribute{Kind: network.KindString, Str: string(attr.S)}, nil, nil

	case onnx.AttributeTensor:
		if attr.T == nil {
			return network.Attribute{}, nil, newError("materialize", "", "", ErrMalformedAttribute)
		}
		info := tensorInfo(attr.T)
		return network.Attribute{Kind: network.KindTensor, Tensor: &info}, nil, nil

	case onnx.AttributeFloats:
		floats := make([]float64, len(attr.Floats))
		for i, f := range attr.Floats {
			floats[i] = float64(f)
		}
		return network.Attribute{Kind: network.KindFloats, Floats: floats}, nil, nil

	case onnx.AttributeInts:
		ints := make([]int64, len(attr.Ints))
		copy(ints, attr.Ints)
		return network.Attribute{Kind: network.KindInts, Ints: ints}, nil, nil

	case onnx.AttributeStrings:
		strs := make([]string, len(attr.Strings))
		for i, s := range attr.Strings {
			strs[i] = string(s)
		}
		return network.Attribute{Kind: network.KindStrings, Strs: strs}, nil, nil

	case onnx.AttributeTensors:
		infos := make([]network.TensorInfo, len(attr.Tensors))
		for i := range attr.Tensors {
			infos[i] = tensorInfo(&attr.Tensors[i])
		}
		return network.Attribute{Kind: network.KindTensors, Tensors: infos}, nil, nil

	case onnx.AttributeGraph:
		ids := []string{}
		var discovered []*network.Network
		if x.recurse {
			if attr.G == nil {
				return network.Attribute{}, nil, newError("materialize", "", "", ErrMalformedAttribute)
			}
			sub, deep, err := x.assemble(graphView(attr.G), true)
			if err != nil {
				return network.Attribute{}, nil, err
			}
			ids = append(ids, sub.ID)
			discovered = append(discovered, sub)
			discovered = append(discovered, deep...)
		}
		return network.Attribute{Kind: network.KindGraph, Graphs: ids}, discovered, nil

	case onnx.AttributeGraphs:
		ids := []string{}
		var subs []*network.Network
		var deeps []*network.Network
		if x.recurse {
			for i := range attr.Graphs {
				sub, deep, err := x.assemble(graphView(&attr.Graphs[i]), true)
				if err != nil {
					return network.Attribute{}, nil, err
				}
				ids = append(ids, sub.ID)
				subs = append(subs, sub)
				deeps = append(deeps, deep...)
			}
		}
		return network.Attribute{Kind: network.KindGraphs, Graphs: ids}, append(subs, deeps...), nil

	default:
		return network.Attribute{}, nil, newError("materialize", "", "", ErrMalformedAttribute)
	}
}

// tensorInfo summarizes a tensor payload without copying its data.
func tensorInfo(t *onnx.TensorProto) network.TensorInfo {
	dims := make([]int64, len(t.Dims))
	copy(dims, t.Dims)
	return network.TensorInfo{
		Name:     t.Name,
		DataType: onnx.ElementTypeName(t.DataType),
		Dims:     dims,
	}
}
