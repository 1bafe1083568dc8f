// Package onnx decodes serialized ONNX models into plain Go structs.
//
// The decoder is a minimal hand-written protobuf wire-format reader: it
// models the messages the extraction pipeline consumes (graphs, nodes,
// functions, initializers, value annotations, attributes) and silently
// skips everything else. No code generation, no protobuf runtime.
package onnx
