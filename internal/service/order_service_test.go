package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/internal/service/mocks"
	"github.com/fsdevblog/shoply/internal/transport/payment"
	"github.com/fsdevblog/shoply/pkg/uow"
	uowmocks "github.com/fsdevblog/shoply/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockUserRepo    *mocks.MockUserRepository
	mockProductRepo *mocks.MockProductRepository
	mockOrderRepo   *mocks.MockOrderRepository
	mockPaymentRepo *mocks.MockPaymentRepository
	mockAuthorizer  *mocks.MockPaymentAuthorizer
	orderService    *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockPaymentRepo = mocks.NewMockPaymentRepository(s.mockCtrl)
	s.mockAuthorizer = mocks.NewMockPaymentAuthorizer(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	orderService, servErr := NewOrderService(s.mockUOW, s.mockAuthorizer, l)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTxRepos настраивает выдачу транзакционных репозиториев из мока TX.
func (s *OrderServiceTestSuite) expectTxRepos() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.PaymentRepoName)).
		Return(s.mockPaymentRepo, nil).AnyTimes()
}

// expectDo прокидывает замыкание uow.Do напрямую в мок транзакции.
func (s *OrderServiceTestSuite) expectDo() {
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
}

func (s *OrderServiceTestSuite) TestCreate() {
	var userID int64 = 1

	user := domain.User{ID: userID, Email: gofakeit.Email()}
	productA := domain.Product{
		ID:    10,
		Name:  gofakeit.ProductName(),
		Price: decimal.RequireFromString("10.50"),
		Stock: 10,
	}
	productB := domain.Product{
		ID:    20,
		Name:  gofakeit.ProductName(),
		Price: decimal.RequireFromString("3.00"),
		Stock: 5,
	}
	// 2 * 10.50 + 3 * 3.00
	wantTotal := decimal.RequireFromString("30.00")

	s.expectTxRepos()
	s.expectDo()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), userID).Return(&user, nil)

	s.mockProductRepo.EXPECT().FindByIDForUpdate(gomock.Any(), productA.ID).Return(&productA, nil)
	s.mockProductRepo.EXPECT().AdjustStock(gomock.Any(), productA.ID, int32(-2)).
		Return(&domain.Product{ID: productA.ID, Stock: 8}, nil)

	s.mockProductRepo.EXPECT().FindByIDForUpdate(gomock.Any(), productB.ID).Return(&productB, nil)
	s.mockProductRepo.EXPECT().AdjustStock(gomock.Any(), productB.ID, int32(-3)).
		Return(&domain.Product{ID: productB.ID, Stock: 2}, nil)

	createdOrder := domain.Order{
		ID:          100,
		CreatedAt:   time.Now(),
		UserID:      userID,
		Status:      domain.OrderStatusProcessing,
		TotalAmount: wantTotal,
	}
	s.mockOrderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
			s.Equal(userID, args.UserID)
			s.Equal(domain.OrderStatusProcessing, args.Status)
			s.True(args.TotalAmount.Equal(wantTotal), "want total %s, got %s", wantTotal, args.TotalAmount)
			return &createdOrder, nil
		})

	s.mockOrderRepo.EXPECT().
		CreateItems(gomock.Any(), createdOrder.ID, gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, orderID int64, items []repoargs.CreateOrderItem, fn repoargs.OrderItemBatchQueryRow) {
			// цены позиций — снапшоты цен продуктов на момент оформления.
			s.Require().Len(items, 2)
			s.True(items[0].Price.Equal(productA.Price))
			s.Equal(int32(2), items[0].Quantity)
			s.True(items[1].Price.Equal(productB.Price))
			s.Equal(int32(3), items[1].Quantity)

			for i := range items {
				fn(i, &domain.OrderItem{ID: int64(i + 1), OrderID: orderID}, nil)
			}
		})

	s.mockAuthorizer.EXPECT().
		Authorize(gomock.Any(), gomock.Any(), "order-100").
		DoAndReturn(func(_ context.Context, amount decimal.Decimal, _ string) (*payment.Authorization, error) {
			s.True(amount.Equal(wantTotal))
			return &payment.Authorization{Approved: true, Reference: "ref-1"}, nil
		})

	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
			s.Equal(createdOrder.ID, args.OrderID)
			s.Equal(domain.PaymentStatusSucceeded, args.Status)
			s.True(args.Amount.Equal(wantTotal))
			return &domain.Payment{ID: 1, OrderID: args.OrderID, Amount: args.Amount, Status: args.Status}, nil
		})

	order, err := s.orderService.Create(s.T().Context(), userID, []OrderItemArgs{
		{ProductID: productA.ID, Quantity: 2},
		{ProductID: productB.ID, Quantity: 3},
	})

	s.Require().NoError(err)
	s.Equal(createdOrder.ID, order.ID)
	s.Equal(domain.OrderStatusProcessing, order.Status)
	s.True(order.TotalAmount.Equal(wantTotal))
}

func (s *OrderServiceTestSuite) TestCreateEmptyItems() {
	_, err := s.orderService.Create(s.T().Context(), 1, nil)
	s.Require().ErrorIs(err, domain.ErrEmptyOrder)
}

func (s *OrderServiceTestSuite) TestCreateUserNotFound() {
	s.expectTxRepos()
	s.expectDo()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(99)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orderService.Create(s.T().Context(), 99, []OrderItemArgs{{ProductID: 1, Quantity: 1}})
	s.Require().ErrorIs(err, domain.ErrUserNotFound)
}

func (s *OrderServiceTestSuite) TestCreateProductNotFound() {
	s.expectTxRepos()
	s.expectDo()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1}, nil)
	s.mockProductRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orderService.Create(s.T().Context(), 1, []OrderItemArgs{{ProductID: 404, Quantity: 1}})

	var notFoundErr *domain.ProductNotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal(int64(404), notFoundErr.ProductID)
}

func (s *OrderServiceTestSuite) TestCreateInsufficientStock() {
	product := domain.Product{
		ID:    10,
		Name:  "gopher mug",
		Price: decimal.RequireFromString("5.00"),
		Stock: 1,
	}

	s.expectTxRepos()
	s.expectDo()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1}, nil)
	s.mockProductRepo.EXPECT().FindByIDForUpdate(gomock.Any(), product.ID).
		Return(&product, nil)
	// AdjustStock не ожидается: при нехватке остатка списания быть не должно.

	_, err := s.orderService.Create(s.T().Context(), 1, []OrderItemArgs{{ProductID: product.ID, Quantity: 2}})

	var stockErr *domain.InsufficientStockError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal(product.Name, stockErr.ProductName)
	s.Equal(int32(1), stockErr.Available)
	s.Equal(int32(2), stockErr.Requested)
}

func (s *OrderServiceTestSuite) TestCreatePaymentDeclined() {
	product := domain.Product{
		ID:    10,
		Name:  "gopher mug",
		Price: decimal.RequireFromString("5.00"),
		Stock: 3,
	}

	s.expectTxRepos()
	s.expectDo()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1}, nil)
	s.mockProductRepo.EXPECT().FindByIDForUpdate(gomock.Any(), product.ID).
		Return(&product, nil)
	s.mockProductRepo.EXPECT().AdjustStock(gomock.Any(), product.ID, int32(-1)).
		Return(&domain.Product{ID: product.ID, Stock: 2}, nil)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.Order{ID: 100, Status: domain.OrderStatusProcessing}, nil)
	s.mockOrderRepo.EXPECT().
		CreateItems(gomock.Any(), int64(100), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, orderID int64, items []repoargs.CreateOrderItem, fn repoargs.OrderItemBatchQueryRow) {
			for i := range items {
				fn(i, &domain.OrderItem{ID: int64(i + 1), OrderID: orderID}, nil)
			}
		})

	s.mockAuthorizer.EXPECT().
		Authorize(gomock.Any(), gomock.Any(), "order-100").
		Return(&payment.Authorization{Approved: false, Reference: "ref-declined"}, nil)
	// paymentRepo.Create не ожидается: при отказе запись об оплате не создается,
	// транзакция откатывается целиком.

	_, err := s.orderService.Create(s.T().Context(), 1, []OrderItemArgs{{ProductID: product.ID, Quantity: 1}})

	var declinedErr *domain.PaymentDeclinedError
	s.Require().ErrorAs(err, &declinedErr)
	s.Equal(int64(100), declinedErr.OrderID)
	s.Equal("ref-declined", declinedErr.Reference)
}

func (s *OrderServiceTestSuite) TestCreateAuthorizerError() {
	product := domain.Product{
		ID:    10,
		Price: decimal.RequireFromString("5.00"),
		Stock: 3,
	}

	s.expectTxRepos()
	s.expectDo()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1}, nil)
	s.mockProductRepo.EXPECT().FindByIDForUpdate(gomock.Any(), product.ID).
		Return(&product, nil)
	s.mockProductRepo.EXPECT().AdjustStock(gomock.Any(), product.ID, int32(-1)).
		Return(&domain.Product{ID: product.ID, Stock: 2}, nil)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.Order{ID: 100, Status: domain.OrderStatusProcessing}, nil)
	s.mockOrderRepo.EXPECT().
		CreateItems(gomock.Any(), int64(100), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, orderID int64, items []repoargs.CreateOrderItem, fn repoargs.OrderItemBatchQueryRow) {
			for i := range items {
				fn(i, &domain.OrderItem{ID: int64(i + 1), OrderID: orderID}, nil)
			}
		})

	// шлюз может не только отклонить, но и просто упасть — это тоже отказ оплаты.
	s.mockAuthorizer.EXPECT().
		Authorize(gomock.Any(), gomock.Any(), "order-100").
		Return(nil, errors.New("gateway unreachable"))

	_, err := s.orderService.Create(s.T().Context(), 1, []OrderItemArgs{{ProductID: product.ID, Quantity: 1}})

	var declinedErr *domain.PaymentDeclinedError
	s.Require().ErrorAs(err, &declinedErr)
}

func (s *OrderServiceTestSuite) TestCancel() {
	order := domain.Order{
		ID:          100,
		UserID:      1,
		Status:      domain.OrderStatusProcessing,
		TotalAmount: decimal.RequireFromString("30.00"),
	}
	items := []domain.OrderItem{
		{ID: 1, OrderID: order.ID, ProductID: 10, Quantity: 2, Price: decimal.RequireFromString("10.50")},
		{ID: 2, OrderID: order.ID, ProductID: 20, Quantity: 3, Price: decimal.RequireFromString("3.00")},
	}

	s.expectTxRepos()
	s.expectDo()

	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), order.ID).Return(&order, nil)
	s.mockOrderRepo.EXPECT().GetItems(gomock.Any(), order.ID).Return(items, nil)

	// остатки возвращаются ровно в количествах из позиций заказа.
	s.mockProductRepo.EXPECT().AdjustStock(gomock.Any(), int64(10), int32(2)).
		Return(&domain.Product{ID: 10, Stock: 12}, nil)
	s.mockProductRepo.EXPECT().AdjustStock(gomock.Any(), int64(20), int32(3)).
		Return(&domain.Product{ID: 20, Stock: 8}, nil)

	cancelled := order
	cancelled.Status = domain.OrderStatusCancelled
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), order.ID, domain.OrderStatusCancelled).
		Return(&cancelled, nil)

	result, err := s.orderService.Cancel(s.T().Context(), order.ID)

	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, result.Status)
}

func (s *OrderServiceTestSuite) TestCancelIdempotent() {
	order := domain.Order{
		ID:     100,
		Status: domain.OrderStatusCancelled,
	}

	s.expectTxRepos()
	s.expectDo()

	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), order.ID).Return(&order, nil)
	// GetItems/AdjustStock/UpdateStatus не ожидаются: повторная отмена ничего не меняет
	// и не возвращает остатки второй раз.

	result, err := s.orderService.Cancel(s.T().Context(), order.ID)

	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, result.Status)
}

func (s *OrderServiceTestSuite) TestCancelNotCancelable() {
	order := domain.Order{
		ID:     100,
		Status: domain.OrderStatusShipped,
	}

	s.expectTxRepos()
	s.expectDo()

	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), order.ID).Return(&order, nil)

	_, err := s.orderService.Cancel(s.T().Context(), order.ID)

	var notCancelableErr *domain.NotCancelableError
	s.Require().ErrorAs(err, &notCancelableErr)
	s.Equal(domain.OrderStatusShipped, notCancelableErr.Status)
}

func (s *OrderServiceTestSuite) TestCancelNotFound() {
	s.expectTxRepos()
	s.expectDo()

	s.mockOrderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orderService.Cancel(s.T().Context(), 404)
	s.Require().ErrorIs(err, domain.ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestGetDetails() {
	details := domain.OrderDetails{
		ID:          100,
		Status:      domain.OrderStatusProcessing,
		TotalAmount: decimal.RequireFromString("21.00"),
		UserID:      1,
		UserEmail:   gofakeit.Email(),
		Items: []domain.OrderDetailsItem{
			// цена позиции зафиксирована на момент оформления и не равна текущей цене продукта.
			{ProductID: 10, ProductName: "gopher mug", Quantity: 2, Price: decimal.RequireFromString("10.50")},
		},
	}

	s.mockOrderRepo.EXPECT().GetDetails(gomock.Any(), details.ID).Return(&details, nil)
	s.mockOrderRepo.EXPECT().GetDetails(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name    string
		orderID int64
		wantErr error
	}{
		{
			name:    "ok",
			orderID: details.ID,
		},
		{
			name:    "not found",
			orderID: 404,
			wantErr: domain.ErrOrderNotFound,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			result, err := s.orderService.GetDetails(s.T().Context(), t.orderID)

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Require().Len(result.Items, 1)
			s.True(result.Items[0].Price.Equal(details.Items[0].Price))
		})
	}
}
