package chessdto

type GotoRequest struct {
	Index int `json:"index"`
}

type LegalResponse struct {
	Square       string   `json:"square"`
	Destinations []string `json:"destinations"`
}
