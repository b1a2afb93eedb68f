package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/service"
	"github.com/fsdevblog/shoply/internal/transport/api/mocks"
	"github.com/fsdevblog/shoply/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUserService = mocks.NewMockUserServicer(s.mockCtrl)

	l := logrus.New()
	l.SetOutput(io.Discard)

	s.router = New(RouterArgs{
		Logger:      l,
		UserService: s.mockUserService,
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *AuthHandlerTestSuite) TestRegister() {
	args := service.RegisterUserArgs{
		Email:    "gopher@example.com",
		Password: "super-secret",
	}

	user := domain.User{
		ID:        1,
		Email:     args.Email,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	cases := []struct {
		name       string
		payload    any
		mockUser   *domain.User
		mockErr    error
		skipMock   bool
		wantStatus int
	}{
		{
			name:       "created",
			payload:    RegisterRequest{Email: args.Email, Password: args.Password},
			mockUser:   &user,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			payload:    RegisterRequest{Email: args.Email, Password: args.Password},
			mockErr:    fmt.Errorf("[service/user]: %w", domain.ErrDuplicateKey),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email",
			payload:    gin.H{"email": "not-an-email", "password": args.Password},
			skipMock:   true,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "short password",
			payload:    gin.H{"email": args.Email, "password": "short"},
			skipMock:   true,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			if !t.skipMock {
				s.mockUserService.EXPECT().
					Register(gomock.Any(), args).
					Return(t.mockUser, t.mockErr)
			}

			resp, reqErr := testutils.MakeJSONRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
			}, t.payload)
			s.Require().NoError(reqErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusCreated {
				var body UserResponse
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Equal(user.ID, body.ID)
				s.Equal(user.Email, body.Email)
			}
		})
	}
}
