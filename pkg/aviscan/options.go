package aviscan

import "path/filepath"

type options struct {
	modelDir   string
	modelPath  string
	labelsPath string
}

// Option configures a Classifier instance.
type Option func(*options)

// WithModelDir sets the directory containing model files.
// Expects: cdd_efficientnet.onnx and label_map.json.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit paths for the model and label catalog.
// Use this when model files aren't in the default directory layout.
func WithModelPaths(model, labels string) Option {
	return func(o *options) {
		o.modelPath = model
		o.labelsPath = labels
	}
}

func defaultOptions() options {
	return options{}
}

// resolvePaths determines the model and label file paths from the configured
// options. Explicit paths take precedence over modelDir.
func resolvePaths(o options) (model, labels string) {
	if o.modelPath != "" {
		return o.modelPath, o.labelsPath
	}
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "cdd_efficientnet.onnx"),
		filepath.Join(dir, "label_map.json")
}
