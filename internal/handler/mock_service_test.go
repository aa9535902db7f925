package handler

import (
	"context"
	"math/big"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/repository"
	"github.com/osse101/DegenSlots_Go/internal/spin"
)

// MockSpinService mocks spin.Service
type MockSpinService struct {
	mock.Mock
}

var _ spin.Service = (*MockSpinService)(nil)

func (m *MockSpinService) Init(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSpinService) OpenSpin(ctx context.Context, player string, reelCount int) (*domain.Spin, error) {
	args := m.Called(ctx, player, reelCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Spin), args.Error(1)
}

func (m *MockSpinService) Fulfill(ctx context.Context, requestID domain.RequestID, words []*big.Int) error {
	return m.Called(ctx, requestID, words).Error(0)
}

func (m *MockSpinService) GetSpin(ctx context.Context, requestID domain.RequestID) (*domain.Spin, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Spin), args.Error(1)
}

func (m *MockSpinService) ListPlayerSpins(ctx context.Context, player string, limit int) ([]*domain.Spin, error) {
	args := m.Called(ctx, player, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Spin), args.Error(1)
}

func (m *MockSpinService) GetSpinCost(reelCount int) (domain.Chips, error) {
	args := m.Called(reelCount)
	return args.Get(0).(domain.Chips), args.Error(1)
}

func (m *MockSpinService) WithdrawWinnings(ctx context.Context, player string) (domain.Chips, error) {
	args := m.Called(ctx, player)
	return args.Get(0).(domain.Chips), args.Error(1)
}

func (m *MockSpinService) GetPlayerStats(ctx context.Context, player string) (*domain.PlayerStats, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlayerStats), args.Error(1)
}

func (m *MockSpinService) BuyChips(ctx context.Context, player string, wei *big.Int) (*spin.ChipTrade, error) {
	args := m.Called(ctx, player, wei)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spin.ChipTrade), args.Error(1)
}

func (m *MockSpinService) SellChips(ctx context.Context, player string, chips domain.Chips) (*spin.ChipTrade, error) {
	args := m.Called(ctx, player, chips)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spin.ChipTrade), args.Error(1)
}

func (m *MockSpinService) QuoteChips(ctx context.Context, wei *big.Int) (*spin.ChipQuote, error) {
	args := m.Called(ctx, wei)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spin.ChipQuote), args.Error(1)
}

func (m *MockSpinService) GetGameStats(ctx context.Context) (*domain.GameStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameStats), args.Error(1)
}

func (m *MockSpinService) DepositCollateral(ctx context.Context, player string, wei *big.Int) (*spin.LoanChange, error) {
	return m.loanCall("DepositCollateral", ctx, player, wei)
}

func (m *MockSpinService) WithdrawCollateral(ctx context.Context, player string, wei *big.Int) (*spin.LoanChange, error) {
	return m.loanCall("WithdrawCollateral", ctx, player, wei)
}

func (m *MockSpinService) BorrowChips(ctx context.Context, player string, wei *big.Int) (*spin.LoanChange, error) {
	return m.loanCall("BorrowChips", ctx, player, wei)
}

func (m *MockSpinService) RepayLoanWithChips(ctx context.Context, player string, chips domain.Chips) (*spin.LoanChange, error) {
	return m.loanCall("RepayLoanWithChips", ctx, player, chips)
}

func (m *MockSpinService) RepayLoanWithETH(ctx context.Context, player string, wei *big.Int) (*spin.LoanChange, error) {
	return m.loanCall("RepayLoanWithETH", ctx, player, wei)
}

func (m *MockSpinService) loanCall(method string, args ...interface{}) (*spin.LoanChange, error) {
	ret := m.MethodCalled(method, args...)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*spin.LoanChange), ret.Error(1)
}

func (m *MockSpinService) GetAccountLiquidity(ctx context.Context, player string) (*domain.AccountLiquidity, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLiquidity), args.Error(1)
}

func (m *MockSpinService) SetPaused(ctx context.Context, paused bool) error {
	return m.Called(ctx, paused).Error(0)
}

func (m *MockSpinService) UpdatePayoutTable(ctx context.Context, reelCount int, entries map[string]domain.PayoutType) (*payout.TableSet, error) {
	args := m.Called(ctx, reelCount, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.TableSet), args.Error(1)
}

func (m *MockSpinService) UpdatePricingParams(ctx context.Context, params domain.PricingParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockSpinService) SetTestETHPrice(ctx context.Context, cents int64) error {
	return m.Called(ctx, cents).Error(0)
}

func (m *MockSpinService) AddToPrizePool(ctx context.Context, amount domain.Chips) (domain.Chips, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(domain.Chips), args.Error(1)
}

func (m *MockSpinService) WithdrawPool(ctx context.Context, amount domain.Chips) (domain.Chips, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(domain.Chips), args.Error(1)
}

func (m *MockSpinService) WithdrawETH(ctx context.Context, wei *big.Int) (*big.Int, error) {
	args := m.Called(ctx, wei)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockSpinService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockProvider mocks randomness.Provider
type MockProvider struct {
	mock.Mock
}

var _ randomness.Provider = (*MockProvider)(nil)

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Request(ctx context.Context, meta randomness.RequestMeta) (domain.RequestID, error) {
	args := m.Called(ctx, meta)
	return args.Get(0).(domain.RequestID), args.Error(1)
}

func (m *MockProvider) AuthenticateCallback(r *http.Request, body []byte) error {
	return m.Called(r, body).Error(0)
}

// MockEventLogService mocks eventlog.Service
type MockEventLogService struct {
	mock.Mock
}

func (m *MockEventLogService) Subscribe(bus event.Bus) error {
	return m.Called(bus).Error(0)
}

func (m *MockEventLogService) Query(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}

func (m *MockEventLogService) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
