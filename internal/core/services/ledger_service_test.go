package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	"github.com/openmc/treasury/internal/core/services"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// LedgerServiceTestSuite drives the transaction engine against the real
// in-memory repositories, since the interesting behavior lives in the
// interplay of scope resolution, access checks, and atomic balance updates.
type LedgerServiceTestSuite struct {
	suite.Suite
	accountRepo *memory.AccountRepository
	accessRepo  *memory.AccessRepository
	service     *services.LedgerService
	accountID   uuid.UUID
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.accountRepo = memory.NewAccountRepository(false, 15, time.Second)
	suite.accessRepo = memory.NewAccessRepository()

	currencyRepo := memory.NewCurrencyRepository(domain.Currency{
		Identifier:       "coin",
		NameSingular:     "Coin",
		NamePlural:       "Coins",
		FractionalDigits: 2,
	})
	currencySvc := services.NewCurrencyService(currencyRepo, true, 2)

	suite.service = services.NewLedgerService(suite.accountRepo, suite.accessRepo, currencySvc, true, "world", true)

	suite.accountID = uuid.New()
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		AccountID: suite.accountID,
		Name:      "Steve",
		Player:    true,
	})
	suite.Require().NoError(err)
}

func (suite *LedgerServiceTestSuite) TestDepositWithdrawSetScenario() {
	ctx := context.Background()
	scope := dto.BalanceScope{}

	resp := suite.service.Deposit(ctx, nil, suite.accountID, scope, decimal.NewFromInt(100))
	suite.Equal(domain.ResponseSuccess, resp.Type)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(100)))

	// Withdrawing more than the balance fails and leaves it unchanged.
	resp = suite.service.Withdraw(ctx, nil, suite.accountID, scope, decimal.NewFromInt(150))
	suite.Equal(domain.ResponseFailure, resp.Type)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(100)))

	balance, err := suite.service.Balance(ctx, suite.accountID, scope)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))

	// Setting to the current balance is idempotent: zero delta.
	resp = suite.service.Set(ctx, nil, suite.accountID, scope, decimal.NewFromInt(100))
	suite.Equal(domain.ResponseSuccess, resp.Type)
	suite.True(resp.Amount.IsZero())
	suite.True(resp.Balance.Equal(decimal.NewFromInt(100)))
}

func (suite *LedgerServiceTestSuite) TestDeposit_NegativeAmountRejected() {
	resp := suite.service.Deposit(context.Background(), nil, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(-5))
	suite.Equal(domain.ResponseFailure, resp.Type)
	suite.NotEmpty(resp.ErrorMessage)

	balance, err := suite.service.Balance(context.Background(), suite.accountID, dto.BalanceScope{})
	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestDeposit_UnknownAccount() {
	resp := suite.service.Deposit(context.Background(), nil, uuid.New(), dto.BalanceScope{}, decimal.NewFromInt(10))
	suite.Equal(domain.ResponseFailure, resp.Type)
	suite.Equal("account does not exist", resp.ErrorMessage)
}

func (suite *LedgerServiceTestSuite) TestDeposit_UnknownCurrency() {
	resp := suite.service.Deposit(context.Background(), nil, suite.accountID, dto.BalanceScope{Currency: "gem"}, decimal.NewFromInt(10))
	suite.Equal(domain.ResponseFailure, resp.Type)
}

func (suite *LedgerServiceTestSuite) TestScopes_AreIndependent() {
	ctx := context.Background()

	resp := suite.service.Deposit(ctx, nil, suite.accountID, dto.BalanceScope{World: "overworld"}, decimal.NewFromInt(40))
	suite.Equal(domain.ResponseSuccess, resp.Type)
	resp = suite.service.Deposit(ctx, nil, suite.accountID, dto.BalanceScope{World: "nether"}, decimal.NewFromInt(2))
	suite.Equal(domain.ResponseSuccess, resp.Type)

	overworld, err := suite.service.Balance(ctx, suite.accountID, dto.BalanceScope{World: "overworld"})
	suite.Require().NoError(err)
	suite.True(overworld.Equal(decimal.NewFromInt(40)))

	nether, err := suite.service.Balance(ctx, suite.accountID, dto.BalanceScope{World: "nether"})
	suite.Require().NoError(err)
	suite.True(nether.Equal(decimal.NewFromInt(2)))
}

func (suite *LedgerServiceTestSuite) TestDeposit_RoundsToCurrencyDigits() {
	resp := suite.service.Deposit(context.Background(), nil, suite.accountID, dto.BalanceScope{}, decimal.RequireFromString("10.005"))
	suite.Equal(domain.ResponseSuccess, resp.Type)
	// Two fractional digits on the default currency, half away from zero.
	suite.True(resp.Amount.Equal(decimal.RequireFromString("10.01")))
	suite.True(resp.Balance.Equal(resp.Amount))
}

func (suite *LedgerServiceTestSuite) TestSet_NegativeTargetRejected() {
	resp := suite.service.Set(context.Background(), nil, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(-1))
	suite.Equal(domain.ResponseFailure, resp.Type)
	suite.Equal("target balance must not be negative", resp.ErrorMessage)
}

func (suite *LedgerServiceTestSuite) TestDeposit_Overflow() {
	huge := decimal.New(1, 16) // past the 10^15 cap
	resp := suite.service.Deposit(context.Background(), nil, suite.accountID, dto.BalanceScope{}, huge)
	suite.Equal(domain.ResponseFailure, resp.Type)
	suite.Equal("operation exceeds the representable balance", resp.ErrorMessage)
}

func (suite *LedgerServiceTestSuite) TestCanAccept_NotImplemented() {
	resp := suite.service.CanAccept(context.Background(), suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(1))
	suite.Equal(domain.ResponseNotImplemented, resp.Type)
}

func (suite *LedgerServiceTestSuite) TestInitiator_NonSharedAccount() {
	ctx := context.Background()
	stranger := uuid.New()

	// A stranger cannot touch someone else's personal account.
	resp := suite.service.Deposit(ctx, &stranger, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(10))
	suite.Equal(domain.ResponseFailure, resp.Type)

	// The holder itself can.
	holder := suite.accountID
	resp = suite.service.Deposit(ctx, &holder, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(10))
	suite.Equal(domain.ResponseSuccess, resp.Type)
}

func (suite *LedgerServiceTestSuite) TestInitiator_SharedAccountPermissions() {
	ctx := context.Background()
	owner := uuid.New()
	member := uuid.New()
	sharedID := uuid.New()

	_, err := suite.service.CreateSharedAccount(ctx, dto.CreateSharedAccountRequest{
		AccountID: sharedID,
		Name:      "Guild Bank",
		Owner:     owner,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.accessRepo.AddMember(ctx, sharedID, member, domain.PermissionDeposit))

	// Member holds DEPOSIT but not WITHDRAW.
	resp := suite.service.Deposit(ctx, &member, sharedID, dto.BalanceScope{}, decimal.NewFromInt(50))
	suite.Equal(domain.ResponseSuccess, resp.Type)
	resp = suite.service.Withdraw(ctx, &member, sharedID, dto.BalanceScope{}, decimal.NewFromInt(10))
	suite.Equal(domain.ResponseFailure, resp.Type)

	// OWNER implies every permission.
	resp = suite.service.Withdraw(ctx, &owner, sharedID, dto.BalanceScope{}, decimal.NewFromInt(10))
	suite.Equal(domain.ResponseSuccess, resp.Type)
}

func (suite *LedgerServiceTestSuite) TestDeleteAccount_RefusedWhileShared() {
	ctx := context.Background()
	owner := uuid.New()
	member := uuid.New()
	sharedID := uuid.New()

	_, err := suite.service.CreateSharedAccount(ctx, dto.CreateSharedAccountRequest{AccountID: sharedID, Name: "Guild Bank", Owner: owner})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.accessRepo.AddMember(ctx, sharedID, member, domain.PermissionBalance))

	err = suite.service.DeleteAccount(ctx, sharedID)
	suite.ErrorIs(err, apperrors.ErrAccountShared)

	// Once the membership is disbanded the delete goes through.
	removed, err := suite.accessRepo.RemoveMember(ctx, sharedID, member)
	suite.Require().NoError(err)
	suite.True(removed)
	suite.Require().NoError(suite.service.DeleteAccount(ctx, sharedID))

	has, err := suite.service.HasAccount(ctx, sharedID)
	suite.Require().NoError(err)
	suite.False(has)
}

func (suite *LedgerServiceTestSuite) TestHasFunds() {
	ctx := context.Background()
	suite.service.Deposit(ctx, nil, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(25))

	enough, err := suite.service.HasFunds(ctx, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(25))
	suite.Require().NoError(err)
	suite.True(enough)

	enough, err = suite.service.HasFunds(ctx, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(26))
	suite.Require().NoError(err)
	suite.False(enough)
}

func (suite *LedgerServiceTestSuite) TestDepositAsync() {
	resp := <-suite.service.DepositAsync(context.Background(), nil, suite.accountID, dto.BalanceScope{}, decimal.NewFromInt(5))
	suite.Equal(domain.ResponseSuccess, resp.Type)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(5)))
}

func (suite *LedgerServiceTestSuite) TestUUIDNameMapAndRename() {
	ctx := context.Background()

	names, err := suite.service.UUIDNameMap(ctx)
	suite.Require().NoError(err)
	suite.Equal("Steve", names[suite.accountID])

	suite.Require().NoError(suite.service.RenameAccount(ctx, suite.accountID, "Alex"))

	names, err = suite.service.UUIDNameMap(ctx)
	suite.Require().NoError(err)
	suite.Equal("Alex", names[suite.accountID])
}

func (suite *LedgerServiceTestSuite) TestAccountSupportsCurrency() {
	ctx := context.Background()

	supported, err := suite.service.AccountSupportsCurrency(ctx, suite.accountID, "coin", "world")
	suite.Require().NoError(err)
	suite.True(supported)

	supported, err = suite.service.AccountSupportsCurrency(ctx, suite.accountID, "gem", "world")
	suite.Require().NoError(err)
	suite.False(supported)

	supported, err = suite.service.AccountSupportsCurrency(ctx, uuid.New(), "coin", "world")
	suite.Require().NoError(err)
	suite.False(supported)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) RenameAccount(ctx context.Context, accountID uuid.UUID, name string) error {
	return m.Called(ctx, accountID, name).Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	return m.Called(ctx, accountID).Error(0)
}

func (m *MockAccountRepository) ListAccountNames(ctx context.Context) (map[uuid.UUID]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *MockAccountRepository) Balance(ctx context.Context, key domain.BalanceKey) (decimal.Decimal, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) Mutate(ctx context.Context, key domain.BalanceKey, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, key, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, key domain.BalanceKey, target decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, key, target)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

// TestDeposit_LockTimeoutIsRetryableFailure checks that a store that cannot
// acquire the balance cell lock in time surfaces as a retryable FAILURE
// reporting the unchanged balance, not as a 500 or a hang.
func TestDeposit_LockTimeoutIsRetryableFailure(t *testing.T) {
	currencyRepo := memory.NewCurrencyRepository(domain.Currency{
		Identifier:       "coin",
		NameSingular:     "Coin",
		NamePlural:       "Coins",
		FractionalDigits: 2,
	})
	currencySvc := services.NewCurrencyService(currencyRepo, true, 2)

	accountRepo := new(MockAccountRepository)
	accountRepo.On("Mutate", mock.Anything, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(40), apperrors.ErrLockTimeout).Once()

	svc := services.NewLedgerService(accountRepo, memory.NewAccessRepository(), currencySvc, true, "world", true)

	resp := svc.Deposit(context.Background(), nil, uuid.New(), dto.BalanceScope{}, decimal.NewFromInt(5))
	assert.Equal(t, domain.ResponseFailure, resp.Type)
	assert.Equal(t, "balance is busy, retry the operation", resp.ErrorMessage)
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(40)))
	accountRepo.AssertExpectations(t)
}
