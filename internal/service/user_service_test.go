package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/internal/service/mocks"
	"github.com/fsdevblog/shoply/pkg/uow"
	uowmocks "github.com/fsdevblog/shoply/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockUserRepo *mocks.MockUserRepository
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	userService, servErr := NewUserService(s.mockUOW)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) TestRegister() {
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Equal(email, args.Email)
			// в репозиторий уходит bcrypt-хэш, а не исходный пароль.
			s.NoError(bcrypt.CompareHashAndPassword([]byte(args.Password), []byte(password)))
			return &domain.User{ID: 1, Email: args.Email, Password: args.Password}, nil
		})

	user, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Email:    email,
		Password: password,
	})

	s.Require().NoError(err)
	s.Equal(email, user.Email)
}

func (s *UserServiceTestSuite) TestRegisterDuplicateEmail() {
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Email:    gofakeit.Email(),
		Password: "secret-password",
	})

	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}
