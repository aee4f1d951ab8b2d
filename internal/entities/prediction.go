package entities

const (
	// Endpoint is the carbon reduction prediction API of the local model server.
	Endpoint = "http://127.0.0.1:8000/predict/"

	// ResponseLabel prefixes the raw response body on stdout.
	ResponseLabel = "Python API 응답: "
)

type PredictionRequest struct {
	UserID            int `json:"user_id"`
	TotalMissionCount int `json:"total_mission_count"`
	TotalClicks       int `json:"total_clicks"`
}

// PredictionResult is the body the model server answers with on success.
// It is only used for logging: the raw body is what gets printed.
type PredictionResult struct {
	UserID                   int      `json:"user_id"`
	PredictedCarbonReduction *float64 `json:"predicted_carbon_reduction"`
	Message                  string   `json:"message"`
}

func DefaultPredictionRequest() PredictionRequest {
	return PredictionRequest{
		UserID:            101,
		TotalMissionCount: 50,
		TotalClicks:       300,
	}
}
