package customers

// CreateCustomerRequest creates a customer.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required,max=15"`
}

// UpdateCustomerRequest replaces a customer's editable fields.
type UpdateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required,max=15"`
}
