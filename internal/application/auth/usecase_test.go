package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "inventario-ledger"}

func TestRegisterUser(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "ana@test.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "ana@test.com" && u.Role == entity.RoleVendedor &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreta123")) == nil
	})).Return(nil)

	uc := auth.NewAuthUseCase(repo, jwtCfg)
	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: " Ana@Test.com ", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@test.com", out.Email)
	assert.Equal(t, "ana@test.com", out.Name)
	assert.Equal(t, entity.UserStatusActive, out.Status)
	repo.AssertExpectations(t)
}

func TestRegisterUser_EmailExistente(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "ana@test.com").Return(&entity.User{ID: "u1"}, nil)

	uc := auth.NewAuthUseCase(repo, jwtCfg)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "ana@test.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc := auth.NewAuthUseCase(new(mockUserRepo), jwtCfg)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "secreta123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{ID: "u1", Email: "ana@test.com", PasswordHash: string(hash), Role: entity.RoleBodeguero, Status: entity.UserStatusActive}

	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "ana@test.com").Return(user, nil)
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@test.com", Password: "secreta123"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, entity.RoleBodeguero, role)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@test.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistenteOInactivo(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	repo := new(mockUserRepo)
	repo.On("GetByEmail", mock.Anything, "nadie@test.com").Return(nil, nil)
	repo.On("GetByEmail", mock.Anything, "baja@test.com").Return(&entity.User{
		ID: "u2", PasswordHash: string(hash), Status: entity.UserStatusInactive,
	}, nil)
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@test.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "baja@test.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
