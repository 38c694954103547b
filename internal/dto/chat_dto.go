package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id"`
}

type ProductSummary struct {
	Id                 string   `json:"id"`
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand"`
	Price              float64  `json:"price"`
	OriginalPrice      float64  `json:"original_price,omitempty"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	DiscountPercentage float64  `json:"discount_percentage,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
}

type ChatResponse struct {
	SessionId   string           `json:"session_id"`
	Intent      string           `json:"intent"`
	Response    string           `json:"response"`
	Products    []ProductSummary `json:"products,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
}

type ClearSessionResponse struct {
	SessionId string `json:"session_id"`
}
