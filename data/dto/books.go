package dto

// CreateBookRequestBody defines a request body for CreateBook service.
type CreateBookRequestBody struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Condition     string `json:"condition"`
	Description   string `json:"description"`
	CoverImageURL string `json:"coverImageUrl"`
}

// UpdateBookRequestBody defines the request body for UpdateBook service. The fields are set
// to a pointer type to allow partial updates based on whether the value is set to nil.
type UpdateBookRequestBody struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	Condition     *string `json:"condition"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"coverImageUrl"`
}
