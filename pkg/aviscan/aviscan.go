package aviscan

import (
	"context"

	"github.com/aviscan-ph/aviscan/internal/engine"
)

// Prediction is the classification result for one image.
type Prediction struct {
	// Label is the winning class name.
	Label string
	// Confidence is the probability assigned to Label, in [0, 1].
	Confidence float64
	// Probabilities maps every class name to its probability.
	Probabilities map[string]float64
}

// Classifier classifies poultry images against a fixed disease catalog.
// Safe for concurrent use.
type Classifier struct {
	engine *engine.Engine
}

// New loads the ONNX model and label catalog and returns a ready Classifier.
// Fails if the catalog length does not match the model's output width.
func New(opts ...Option) (*Classifier, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	model, labels := resolvePaths(o)

	eng, err := engine.New(model, labels)
	if err != nil {
		return nil, err
	}
	return &Classifier{engine: eng}, nil
}

// Classify runs inference on raw image bytes (JPEG or PNG) and returns the
// prediction. Decode failures and unsupported formats surface as errors; a
// successful call always names exactly one catalog label.
func (c *Classifier) Classify(ctx context.Context, image []byte) (Prediction, error) {
	p, err := c.engine.Classify(ctx, image)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Label:         p.Label,
		Confidence:    p.Confidence,
		Probabilities: p.Probabilities,
	}, nil
}

// Labels returns the class names in model output order.
func (c *Classifier) Labels() []string {
	return c.engine.Labels()
}

// InputSize returns the height and width the model expects. Images of other
// sizes are resized automatically during Classify.
func (c *Classifier) InputSize() (height, width int) {
	return c.engine.InputSize()
}

// Close releases the underlying ONNX session. The Classifier must not be
// used after Close.
func (c *Classifier) Close() error {
	return c.engine.Close()
}
