package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shoply/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	OrderService   *OrderService
	ProductService *ProductService
}

func Factory(unitOfWork uow.UOW, authorizer PaymentAuthorizer, l *logrus.Logger) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork, authorizer, l)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	productService, productServiceErr := NewProductService(unitOfWork)
	if productServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", productServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		OrderService:   orderService,
		ProductService: productService,
	}, nil
}
