package dto

// PredictRequest is the payload sent to the inference service. The image is
// the raw upload, base64 encoded.
type PredictRequest struct {
	Image string `json:"image"`
}

type Prediction struct {
	Class string  `json:"class"`
	Prob  float64 `json:"prob"`
}

// PredictResponse carries the ranked class probabilities returned by the
// inference service, most confident first.
type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
}
