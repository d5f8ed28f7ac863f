package dto

// SubmitResultRequest é o payload administrativo de resultado oficial.
// Positions traz exatamente 5 ids de piloto, em ordem de chegada.
type SubmitResultRequest struct {
	Positions []string `json:"positions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
