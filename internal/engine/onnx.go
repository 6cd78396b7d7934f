package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if _, err := os.Stat(libPath); err == nil {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// session wraps a DynamicAdvancedSession for an image classification model
// with a single NHWC float32 input and a single [1, numClasses] output.
type session struct {
	sess       *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	height     int
	width      int
	numClasses int

	// ONNX Runtime session Run is not documented as safe for concurrent
	// invocation on the same session; the lock scopes the Run call only.
	mu sync.Mutex
}

// newSession loads the ONNX model and creates an inference session.
// It validates the model's input/output tensor shapes: the input must be a
// rank-4 NHWC image tensor with 3 channels, the output a rank-2 class vector.
func newSession(modelPath string) (*session, error) {
	// Resolve the ONNX Runtime shared library path. When shipped alongside
	// the model file we use that copy; otherwise the default search applies.
	modelDir := filepath.Dir(modelPath)
	libPath := filepath.Join(modelDir, "libonnxruntime.so")

	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 4 {
		return nil, fmt.Errorf("onnx: expected rank-4 image input, got %v", in.Dimensions)
	}
	if in.Dimensions[3] != 3 {
		return nil, fmt.Errorf("onnx: expected 3-channel NHWC input, got %v", in.Dimensions)
	}
	height := int(in.Dimensions[1])
	width := int(in.Dimensions[2])
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("onnx: model input has dynamic spatial dims %v; a fixed export is required", in.Dimensions)
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	out := outputs[0]
	if len(out.Dimensions) != 2 {
		return nil, fmt.Errorf("onnx: expected [batch, classes] output tensor, got %v", out.Dimensions)
	}
	numClasses := int(out.Dimensions[1])
	if numClasses <= 0 {
		return nil, fmt.Errorf("onnx: model output has dynamic class dim %v", out.Dimensions)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	sess, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{in.Name},
		[]string{out.Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &session{
		sess:       sess,
		inputName:  in.Name,
		outputName: out.Name,
		height:     height,
		width:      width,
		numClasses: numClasses,
	}, nil
}

// run performs one inference call. pixels is a flat [1 * height * width * 3]
// NHWC slice. Returns the raw output vector of length numClasses.
func (s *session) run(pixels []float32) ([]float32, error) {
	expected := s.height * s.width * 3
	if len(pixels) != expected {
		return nil, fmt.Errorf("onnx: expected %d input values, got %d", expected, len(pixels))
	}

	inShape := ort.NewShape(1, int64(s.height), int64(s.width), 3)
	tIn, err := ort.NewTensor(inShape, pixels)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	outShape := ort.NewShape(1, int64(s.numClasses))
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	s.mu.Lock()
	err = s.sess.Run([]ort.Value{tIn}, []ort.Value{tOut})
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	result := make([]float32, len(src))
	copy(result, src)
	return result, nil
}

// close releases the ONNX session resources.
func (s *session) close() error {
	return s.sess.Destroy()
}
