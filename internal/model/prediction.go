package model

// Prediction is the outcome of classifying a single image.
type Prediction struct {
	// Label is the class with the highest probability.
	Label string `json:"prediction"`
	// Confidence equals the probability of Label.
	Confidence float64 `json:"confidence"`
	// Probabilities maps every catalog label to its probability.
	Probabilities map[string]float64 `json:"probabilities"`
}
