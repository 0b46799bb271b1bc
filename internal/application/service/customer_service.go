package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/okello/invoicer-api/internal/domain/entity"
	"github.com/okello/invoicer-api/internal/domain/repository"
	"github.com/okello/invoicer-api/pkg/apperror"
	"github.com/okello/invoicer-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput represents the create/update customer input
type CustomerInput struct {
	Name      string
	Email     *string
	Phone     *string
	VATNumber *string
	Address   *string
	Country   *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, userID uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		UserID:    userID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		VATNumber: input.VATNumber,
		Address:   input.Address,
		Country:   input.Country,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer updates a customer's details
func (s *CustomerService) UpdateCustomer(ctx context.Context, userID, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if customer.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.VATNumber = input.VATNumber
	customer.Address = input.Address
	customer.Country = input.Country

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, userID, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	if customer.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with filtering
func (s *CustomerService) ListCustomers(ctx context.Context, userID uuid.UUID, params *repository.CustomerFilterParams) (*pagination.PaginatedResult[entity.Customer], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	customers, total, err := s.customerRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}
