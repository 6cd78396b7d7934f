package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aviscan-ph/aviscan/internal/engine/preprocess"
	"github.com/aviscan-ph/aviscan/internal/model"
)

// ErrInference indicates the runtime rejected an input tensor or failed
// while invoking the model.
var ErrInference = errors.New("engine: inference failed")

// Engine runs a pre-trained chicken-disease classifier. The model and label
// catalog are loaded exactly once at construction and reused for every
// request; Engine is safe for concurrent use.
type Engine struct {
	session *session
	catalog Catalog
}

// New loads the ONNX model and label catalog. The catalog length must match
// the model's output vector length exactly; a mismatch is fatal and the
// process must not serve traffic with a partially constructed engine.
func New(modelPath, labelsPath string) (*Engine, error) {
	catalog, err := LoadCatalog(labelsPath)
	if err != nil {
		return nil, err
	}

	sess, err := newSession(modelPath)
	if err != nil {
		return nil, err
	}

	if sess.numClasses != len(catalog) {
		sess.close()
		return nil, fmt.Errorf(
			"engine: model outputs %d classes but label catalog has %d entries",
			sess.numClasses, len(catalog))
	}

	slog.Info("model loaded",
		"model", modelPath,
		"input", fmt.Sprintf("%dx%d", sess.width, sess.height),
		"classes", len(catalog))

	return &Engine{session: sess, catalog: catalog}, nil
}

// Labels returns the catalog in model output order.
func (e *Engine) Labels() []string {
	out := make([]string, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// InputSize returns the spatial dimensions (height, width) the loaded model
// expects. Preprocessing sources its target size from here so the contract
// between preprocessor and model lives in one place.
func (e *Engine) InputSize() (height, width int) {
	return e.session.height, e.session.width
}

// Classify decodes and preprocesses raw image bytes, runs inference, and
// returns the prediction. Decode failures surface the preprocess sentinel
// errors; runtime failures wrap ErrInference.
func (e *Engine) Classify(ctx context.Context, raw []byte) (model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return model.Prediction{}, err
	}

	pixels, err := preprocess.Preprocess(raw, e.session.height, e.session.width)
	if err != nil {
		return model.Prediction{}, err
	}

	if err := ctx.Err(); err != nil {
		return model.Prediction{}, err
	}

	output, err := e.session.run(pixels)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	return buildPrediction(output, e.catalog)
}

// Close releases the ONNX session resources.
func (e *Engine) Close() error {
	return e.session.close()
}
