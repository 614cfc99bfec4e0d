package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/service"
)

// CustomerHandler manages storefront customers.
type CustomerHandler struct {
	customers *service.CustomerService
}

// NewCustomerHandler constructs handler.
func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func customerResponse(cu *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        cu.ID,
		StoreID:   cu.StoreID,
		Name:      cu.Name,
		Email:     cu.Email,
		Phone:     cu.Phone,
		Balance:   cu.Balance,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}
}

func customerInput(req dto.CustomerRequest) service.CustomerInput {
	return service.CustomerInput{Name: req.Name, Email: req.Email, Phone: req.Phone}
}

// Create POST /api/:storeId/customers.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.Create(c.UserContext(), store, customerInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// List GET /api/:storeId/customers.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	list, err := h.customers.List(c.UserContext(), store)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		items = append(items, customerResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/:storeId/customers/:customerId.
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "customerId")
	if err != nil {
		return err
	}
	customer, err := h.customers.Get(c.UserContext(), store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Update PATCH /api/:storeId/customers/:customerId.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "customerId")
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.Update(c.UserContext(), store, id, customerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Balance PATCH /api/:storeId/customers/:customerId/balance adds amount to the balance.
func (h *CustomerHandler) Balance(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "customerId")
	if err != nil {
		return err
	}
	var req dto.BalanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.AdjustBalance(c.UserContext(), store, id, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Delete DELETE /api/:storeId/customers/:customerId.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "customerId")
	if err != nil {
		return err
	}
	if err := h.customers.Delete(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
