package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dan246/ff14-tw-market/internal/domain"
)

// MockResolver mocks the Resolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, itemID, quantity int, scope []int) (*domain.CostNode, error) {
	args := m.Called(ctx, itemID, quantity, scope)
	if node := args.Get(0); node != nil {
		return node.(*domain.CostNode), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockOptimizer mocks the Optimizer interface
type MockOptimizer struct {
	mock.Mock
}

func (m *MockOptimizer) Optimize(ctx context.Context, lines []domain.ShoppingLine, scope []int, mode domain.FulfillmentMode) (*domain.ShoppingResult, error) {
	args := m.Called(ctx, lines, scope, mode)
	if result := args.Get(0); result != nil {
		return result.(*domain.ShoppingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRanker mocks the ProfitRanker interface
type MockRanker struct {
	mock.Mock
}

func (m *MockRanker) Rank(ctx context.Context, candidateIDs []int, scope []int, limit int) ([]domain.ProfitEntry, error) {
	args := m.Called(ctx, candidateIDs, scope, limit)
	if entries := args.Get(0); entries != nil {
		return entries.([]domain.ProfitEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockFeed mocks the RecentFeed interface
type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) FetchRecentlyUpdated(ctx context.Context, worldID, limit int) ([]int, error) {
	args := m.Called(ctx, worldID, limit)
	if items := args.Get(0); items != nil {
		return items.([]int), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBooks mocks the BookSource interface
type MockBooks struct {
	mock.Mock
}

func (m *MockBooks) GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error) {
	args := m.Called(ctx, worldID, itemID)
	if book := args.Get(0); book != nil {
		return book.(*domain.OrderBook), args.Error(1)
	}
	return nil, args.Error(1)
}
