package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/openmc/treasury/internal/core/domain"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/handlers"
	"github.com/openmc/treasury/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PermissionService ---
type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) Has(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, error) {
	args := m.Called(ctx, pctx, subject, permission)
	return args.Get(0).(domain.TriState), args.Error(1)
}

func (m *MockPermissionService) HasAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) <-chan domain.TriState {
	return m.Called(ctx, pctx, subject, permission).Get(0).(<-chan domain.TriState)
}

func (m *MockPermissionService) SetPermission(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) (bool, error) {
	args := m.Called(ctx, pctx, subject, permission, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) SetPermissionAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) <-chan bool {
	return m.Called(ctx, pctx, subject, permission, value).Get(0).(<-chan bool)
}

func (m *MockPermissionService) SetTransientPermission(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) (bool, error) {
	args := m.Called(ctx, pctx, subject, permission, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) SetTransientPermissionAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) <-chan bool {
	return m.Called(ctx, pctx, subject, permission, value).Get(0).(<-chan bool)
}

func (m *MockPermissionService) RegisterGroup(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockPermissionService) Groups(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPermissionService) GroupsOf(ctx context.Context, pctx domain.Context, subject domain.Subject) ([]string, error) {
	args := m.Called(ctx, pctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPermissionService) PrimaryGroup(ctx context.Context, pctx domain.Context, subject domain.Subject) (string, error) {
	args := m.Called(ctx, pctx, subject)
	return args.String(0), args.Error(1)
}

func (m *MockPermissionService) InGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	args := m.Called(ctx, pctx, subject, group)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) AddGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	args := m.Called(ctx, pctx, subject, group)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) RemoveGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	args := m.Called(ctx, pctx, subject, group)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) GroupHas(ctx context.Context, pctx domain.Context, group, permission string) (domain.TriState, error) {
	args := m.Called(ctx, pctx, group, permission)
	return args.Get(0).(domain.TriState), args.Error(1)
}

func (m *MockPermissionService) GroupSetPermission(ctx context.Context, pctx domain.Context, group, permission string, value domain.TriState) (bool, error) {
	args := m.Called(ctx, pctx, group, permission, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionService) GroupSetTransientPermission(ctx context.Context, pctx domain.Context, group, permission string, value domain.TriState) (bool, error) {
	args := m.Called(ctx, pctx, group, permission, value)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.PermissionSvcFacade = (*MockPermissionService)(nil)

// --- Test Suite ---
type PermissionHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockPermissionService
	token       string
}

func (suite *PermissionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockService = new(MockPermissionService)
	cfg := &config.Config{JWTSecret: testJWTSecret}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{Permission: suite.mockService})

	claims := jwt.RegisteredClaims{
		Subject:   "test-plugin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	suite.token = signed
}

func (suite *PermissionHandlerTestSuite) doRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *PermissionHandlerTestSuite) TestCheckPermission() {
	subject := domain.Subject{Identifier: "steve", DisplayName: "steve", Type: domain.SubjectPlayer}
	suite.mockService.On("Has", mock.Anything, domain.Global, subject, "town.build").Return(domain.True, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/permissions/check", dto.PermissionCheckRequest{
		Subject:    dto.SubjectDTO{Identifier: "steve", Type: "PLAYER"},
		Permission: "town.build",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TriStateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.True, resp.Value)
	suite.mockService.AssertExpectations(suite.T())
}

// The group of every /groups/:group route comes from the path; the body only
// carries the subject and the optional context.
func (suite *PermissionHandlerTestSuite) TestAddGroupMember_GroupFromPath() {
	subject := domain.Subject{Identifier: "steve", DisplayName: "steve", Type: domain.SubjectPlayer}
	suite.mockService.On("AddGroup", mock.Anything, domain.Global, subject, "builders").Return(true, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/builders/members", dto.GroupMembershipRequest{
		Subject: dto.SubjectDTO{Identifier: "steve", Type: "PLAYER"},
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PermissionHandlerTestSuite) TestCheckGroupMembership_GroupFromPath() {
	subject := domain.Subject{Identifier: "steve", DisplayName: "steve", Type: domain.SubjectPlayer}
	suite.mockService.On("InGroup", mock.Anything, domain.Global, subject, "builders").Return(true, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/builders/membership", dto.GroupMembershipRequest{
		Subject: dto.SubjectDTO{Identifier: "steve", Type: "PLAYER"},
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PermissionHandlerTestSuite) TestGroupSetPermission_GroupFromPath() {
	suite.mockService.On("GroupSetPermission", mock.Anything, domain.Global, "builders", "town.build", domain.True).Return(true, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/builders/permissions", dto.GroupPermissionRequest{
		Permission: "town.build",
		Value:      "true",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PermissionHandlerTestSuite) TestAddGroupMember_MissingSubject() {
	w := suite.doRequest(http.MethodPost, "/api/v1/groups/builders/members", map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "AddGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPermissionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionHandlerTestSuite))
}
