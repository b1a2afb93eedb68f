package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/transport/api/mocks"
	"github.com/fsdevblog/shoply/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ProductsHandlerTestSuite struct {
	suite.Suite
	mockCtrl           *gomock.Controller
	router             *gin.Engine
	mockProductService *mocks.MockProductServicer
}

func TestProductsHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductsHandlerTestSuite))
}

func (s *ProductsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockCtrl = gomock.NewController(s.T())
	s.mockProductService = mocks.NewMockProductServicer(s.mockCtrl)

	l := logrus.New()
	l.SetOutput(io.Discard)

	s.router = New(RouterArgs{
		Logger:         l,
		ProductService: s.mockProductService,
	})
}

func (s *ProductsHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ProductsHandlerTestSuite) TestIndex() {
	products := []domain.Product{
		{ID: 1, Name: "gopher mug", Price: decimal.RequireFromString("10.50"), Stock: 5},
		{ID: 2, Name: "gopher tee", Price: decimal.RequireFromString("25.00"), Stock: 0},
	}

	s.mockProductService.EXPECT().List(gomock.Any()).Return(products, nil)

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ProductsRoute,
	})
	s.Require().NoError(reqErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusOK, resp.StatusCode)

	var body []ProductResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Require().Len(body, 2)
	s.Equal(products[0].Name, body[0].Name)
	s.InDelta(10.50, body[0].Price, 0.001)
	s.Equal(int32(0), body[1].Stock)
}

func (s *ProductsHandlerTestSuite) TestIndexServiceError() {
	s.mockProductService.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ProductsRoute,
	})
	s.Require().NoError(reqErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusInternalServerError, resp.StatusCode)
}
