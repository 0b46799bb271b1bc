package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	VATNumber *string `json:"vat_number" binding:"omitempty,max=100"`
	Address   *string `json:"address"`
	Country   *string `json:"country" binding:"omitempty,max=100"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	VATNumber *string `json:"vat_number" binding:"omitempty,max=100"`
	Address   *string `json:"address"`
	Country   *string `json:"country" binding:"omitempty,max=100"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
