// Package aviscan provides a poultry disease image classifier backed by a
// pre-trained ONNX model.
//
// Quick start:
//
//	cls, err := aviscan.New(aviscan.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cls.Close()
//
//	pred, _ := cls.Classify(ctx, imageBytes)
//	fmt.Println(pred.Label, pred.Confidence) // Coccidiosis 0.93
//
// The Classifier is safe for concurrent use. Create once, reuse across
// requests. See the README for full documentation.
package aviscan
