package opset

// Built-in operator-set tables, derived from the ONNX operator registry.
// Slot names and ordering follow the upstream schema definitions; optional
// trailing inputs are listed as ordinary single slots because positional
// resolution does not distinguish them.

func init() {
	registerUnary()
	registerBinary()
	registerVariadic()
	registerNN()
	registerShape()
	registerReduction()
	registerControlFlow()
	registerSequence()
	registerQuantization()
	registerRandom()
	registerML()
	registerTraining()
}

func registerUnary() {
	for _, opType := range []string{
		"Abs", "Acos", "Acosh", "Asin", "Asinh", "Atan", "Atanh",
		"Ceil", "Cos", "Cosh", "Erf", "Exp", "Floor", "HardSwish",
		"IsNaN", "Log", "Neg", "Not", "Reciprocal", "Relu", "Round",
		"Sigmoid", "Sign", "Sin", "Sinh", "Softplus", "Softsign",
		"Sqrt", "Tan", "Tanh", "ThresholdedRelu", "Elu", "LeakyRelu",
		"Selu", "Celu", "Gelu", "HardSigmoid", "Mish", "Shrink",
		"IsInf", "LRN", "MeanVarianceNormalization", "NonZero",
		"GlobalAveragePool", "GlobalLpPool", "GlobalMaxPool", "LpNormalization",
	} {
		def(opType, slots("X"), slots("Y"))
	}
	def("Identity", slots("input"), slots("output"))
	def("Softmax", slots("input"), slots("output"))
	def("LogSoftmax", slots("input"), slots("output"))
	def("Hardmax", slots("input"), slots("output"))
	def("DepthToSpace", slots("input"), slots("output"))
	def("SpaceToDepth", slots("input"), slots("output"))
	def("EyeLike", slots("input"), slots("output"))
	def("Multinomial", slots("input"), slots("output"))
	def("ConstantOfShape", slots("input"), slots("output"))
	def("Constant", nil, slots("output"))
	def("Shape", slots("data"), slots("shape"))
	def("Size", slots("data"), slots("size"))
	def("Cast", slots("input"), slots("output"))
	def("Optional", slots("input"), slots("output"))
	def("OptionalGetElement", slots("input"), slots("output"))
	def("OptionalHasElement", slots("input"), slots("output"))
	def("StringNormalizer", slots("X"), slots("Y"))
	def("TfIdfVectorizer", slots("X"), slots("Y"))
}

func registerBinary() {
	for _, opType := range []string{"Add", "Sub", "Mul", "Div", "And", "Or", "Xor", "Mod", "BitwiseAnd", "BitwiseOr", "BitwiseXor"} {
		def(opType, slots("A", "B"), slots("C"))
	}
	for _, opType := range []string{"Greater", "GreaterOrEqual", "Less", "LessOrEqual", "Equal"} {
		def(opType, slots("A", "B"), slots("C"))
	}
	def("Pow", slots("X", "Y"), slots("Z"))
	def("BitShift", slots("X", "Y"), slots("Z"))
	def("PRelu", slots("X", "slope"), slots("Y"))
	def("MatMul", slots("A", "B"), slots("Y"))
	def("Gemm", slots("A", "B", "C"), slots("Y"))
	def("CastLike", slots("input", "target_type"), slots("output"))
	def("Where", slots("condition", "X", "Y"), slots("output"))
	def("Clip", slots("input", "min", "max"), slots("output"))
	def("CumSum", slots("x", "axis"), slots("y"))
	def("Trilu", slots("input", "k"), slots("output"))
	def("Range", slots("start", "limit", "delta"), slots("output"))
	def("OneHot", slots("indices", "depth", "values"), slots("output"))
}

func registerVariadic() {
	def("Sum", trailing("data_0"), slots("sum"))
	def("Max", trailing("data_0"), slots("max"))
	def("Min", trailing("data_0"), slots("min"))
	def("Mean", trailing("data_0"), slots("mean"))
	def("Concat", trailing("inputs"), slots("concat_result"))
	def("Einsum", trailing("Inputs"), slots("Output"))
}

func registerNN() {
	def("Conv", slots("X", "W", "B"), slots("Y"))
	def("ConvInteger", slots("x", "w", "x_zero_point", "w_zero_point"), slots("y"))
	def("ConvTranspose", slots("X", "W", "B"), slots("Y"))
	def("DeformConv", slots("X", "W", "offset", "B", "mask"), slots("Y"))
	def("MaxPool", slots("X"), slots("Y", "Indices"))
	def("MaxUnpool", slots("X", "I", "output_shape"), slots("output"))
	def("MaxRoiPool", slots("X", "rois"), slots("Y"))
	def("AveragePool", slots("X"), slots("Y"))
	def("LpPool", slots("X"), slots("Y"))
	def("BatchNormalization",
		slots("X", "scale", "B", "input_mean", "input_var"),
		slots("Y", "running_mean", "running_var"))
	def("InstanceNormalization", slots("input", "scale", "B"), slots("output"))
	def("LayerNormalization", slots("X", "Scale", "B"), slots("Y", "Mean", "InvStdDev"))
	def("GroupNormalization", slots("X", "scale", "bias"), slots("Y"))
	def("Dropout", slots("data", "ratio", "training_mode"), slots("output", "mask"))
	def("Flatten", slots("input"), slots("output"))
	def("RNN",
		slots("X", "W", "R", "B", "sequence_lens", "initial_h"),
		slots("Y", "Y_h"))
	def("GRU",
		slots("X", "W", "R", "B", "sequence_lens", "initial_h"),
		slots("Y", "Y_h"))
	def("LSTM",
		slots("X", "W", "R", "B", "sequence_lens", "initial_h", "initial_c", "P"),
		slots("Y", "Y_h", "Y_c"))
	def("Attention",
		slots("Q", "K", "V", "attn_mask", "past_key", "past_value"),
		slots("Y", "present_key", "present_value", "qk_matmul_output"))
	def("Resize", slots("X", "roi", "scales", "sizes"), slots("Y"))
	def("Upsample", slots("X", "scales"), slots("Y"))
	def("GridSample", slots("X", "grid"), slots("Y"))
	def("RoiAlign", slots("X", "rois", "batch_indices"), slots("Y"))
	def("NonMaxSuppression",
		slots("boxes", "scores", "max_output_boxes_per_class", "iou_threshold", "score_threshold"),
		slots("selected_indices"))
	def("TopK", slots("X", "K"), slots("Values", "Indices"))
	def("NegativeLogLikelihoodLoss", slots("input", "target", "weight"), slots("loss"))
	def("SoftmaxCrossEntropyLoss", slots("scores", "labels", "weights"), slots("output", "log_prob"))
	def("Col2Im", slots("input", "image_shape", "block_shape"), slots("output"))
}

func registerShape() {
	def("Reshape", slots("data", "shape"), slots("reshaped"))
	def("Transpose", slots("data"), slots("transposed"))
	def("Squeeze", slots("data", "axes"), slots("squeezed"))
	def("Unsqueeze", slots("data", "axes"), slots("expanded"))
	def("Slice", slots("data", "starts", "ends", "axes", "steps"), slots("output"))
	def("Gather", slots("data", "indices"), slots("output"))
	def("GatherElements", slots("data", "indices"), slots("output"))
	def("GatherND", slots("data", "indices"), slots("output"))
	def("ScatterElements", slots("data", "indices", "updates"), slots("output"))
	def("ScatterND", slots("data", "indices", "updates"), slots("output"))
	def("Expand", slots("input", "shape"), slots("output"))
	def("Tile", slots("input", "repeats"), slots("output"))
	def("Pad", slots("data", "pads", "constant_value", "axes"), slots("output"))
	def("Compress", slots("input", "condition"), slots("output"))
	def("ReverseSequence", slots("input", "sequence_lens"), slots("Y"))
	def("Unique", slots("X"), slots("Y", "indices", "inverse_indices", "counts"))
	def("Split", slots("input", "split"), trailing("outputs"))
}

func registerReduction() {
	for _, opType := range []string{
		"ReduceSum", "ReduceMean", "ReduceMax", "ReduceMin", "ReduceProd",
		"ReduceL1", "ReduceL2", "ReduceLogSum", "ReduceLogSumExp", "ReduceSumSquare",
	} {
		def(opType, slots("data", "axes"), slots("reduced"))
	}
	def("ArgMax", slots("data"), slots("reduced"))
	def("ArgMin", slots("data"), slots("reduced"))
}

func registerControlFlow() {
	def("If", slots("cond"), trailing("outputs"))
	def("Loop", trailing("M", "cond", "v_initial"), trailing("v_final_and_scan_outputs"))
	def("Scan", trailing("initial_state_and_scan_inputs"), trailing("final_state_and_scan_outputs"))
}

func registerSequence() {
	def("SequenceConstruct", trailing("inputs"), slots("output_sequence"))
	def("SequenceEmpty", nil, slots("output"))
	def("SequenceAt", slots("input_sequence", "position"), slots("tensor"))
	def("SequenceErase", slots("input_sequence", "position"), slots("output_sequence"))
	def("SequenceInsert", slots("input_sequence", "tensor", "position"), slots("output_sequence"))
	def("SequenceLength", slots("input_sequence"), slots("length"))
	def("SequenceMap", trailing("input_sequence", "additional_inputs"), trailing("out_sequence"))
	def("SplitToSequence", slots("input", "split"), slots("output_sequence"))
	def("ConcatFromSequence", slots("input_sequence"), slots("concat_result"))
}

func registerQuantization() {
	def("QuantizeLinear", slots("x", "y_scale", "y_zero_point"), slots("y"))
	def("DequantizeLinear", slots("x", "x_scale", "x_zero_point"), slots("y"))
	def("DynamicQuantizeLinear", slots("x"), slots("y", "y_scale", "y_zero_point"))
	def("MatMulInteger", slots("A", "B", "a_zero_point", "b_zero_point"), slots("Y"))
	def("QLinearConv",
		slots("x", "x_scale", "x_zero_point", "w", "w_scale", "w_zero_point", "y_scale", "y_zero_point", "B"),
		slots("y"))
	def("QLinearMatMul",
		slots("a", "a_scale", "a_zero_point", "b", "b_scale", "b_zero_point", "y_scale", "y_zero_point"),
		slots("y"))
}

func registerRandom() {
	def("RandomNormal", nil, slots("output"))
	def("RandomUniform", nil, slots("output"))
	def("RandomNormalLike", slots("input"), slots("output"))
	def("RandomUniformLike", slots("input"), slots("output"))
	def("Bernoulli", slots("input"), slots("output"))
}

func registerML() {
	defML("ArrayFeatureExtractor", slots("X", "Y"), slots("Z"))
	defML("Binarizer", slots("X"), slots("Y"))
	defML("CastMap", slots("X"), slots("Y"))
	defML("CategoryMapper", slots("X"), slots("Y"))
	defML("DictVectorizer", slots("X"), slots("Y"))
	defML("FeatureVectorizer", trailing("X"), slots("Y"))
	defML("Imputer", slots("X"), slots("Y"))
	defML("LabelEncoder", slots("X"), slots("Y"))
	defML("LinearClassifier", slots("X"), slots("Y", "Z"))
	defML("LinearRegressor", slots("X"), slots("Y"))
	defML("Normalizer", slots("X"), slots("Y"))
	defML("OneHotEncoder", slots("X"), slots("Y"))
	defML("SVMClassifier", slots("X"), slots("Y", "Z"))
	defML("SVMRegressor", slots("X"), slots("Y"))
	defML("Scaler", slots("X"), slots("Y"))
	defML("TreeEnsembleClassifier", slots("X"), slots("Y", "Z"))
	defML("TreeEnsembleRegressor", slots("X"), slots("Y"))
	defML("ZipMap", slots("X"), slots("Z"))
}

func registerTraining() {
	defTraining("Gradient", trailing("Inputs"), trailing("Outputs"))
	defTraining("Adagrad", trailing("R", "T", "inputs"), trailing("outputs"))
	defTraining("Adam", trailing("R", "T", "inputs"), trailing("outputs"))
	defTraining("Momentum", trailing("R", "T", "inputs"), trailing("outputs"))
}
