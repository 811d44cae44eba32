package cartrepo_test

import (
	"context"
	"testing"
	"time"

	"takeout/internal/adapters/out/postgres/cartrepo"
	"takeout/internal/adapters/out/postgres/pgtest"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type CartRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *cartrepo.GormCartRepository
}

func (suite *CartRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), &cartrepo.CartItemDTO{})
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *CartRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db, "shopping_cart"))
	suite.repository = cartrepo.NewGormCartRepository(suite.db)
}

func (suite *CartRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CartRepositoryIntegrationTestSuite) TestItems_EmptyCart() {
	items, err := suite.repository.Items(context.Background(), 1)

	suite.Require().NoError(err)
	suite.Empty(items)
}

func (suite *CartRepositoryIntegrationTestSuite) TestPut_KeepsOrderAndProducts() {
	ctx := context.Background()
	user, err := kernel.UserActor(3)
	suite.Require().NoError(err)
	want := []order.LineItem{
		suite.item("Beef Noodles", order.Product{DishID: 4, Flavor: "extra spicy", Image: "b.png"}, "26.00", 1),
		suite.item("Lunch Combo", order.Product{SetmealID: 8}, "39.90", 2),
	}

	suite.Require().NoError(suite.repository.Put(ctx, user, 3, want))

	got, err := suite.repository.Items(ctx, 3)
	suite.Require().NoError(err)
	suite.Equal(want, got)

	var dto cartrepo.CartItemDTO
	suite.Require().NoError(suite.db.First(&dto).Error)
	suite.Equal(int64(3), dto.CreatedBy)
}

func (suite *CartRepositoryIntegrationTestSuite) TestPut_NothingToAdd() {
	suite.Require().NoError(suite.repository.Put(context.Background(), kernel.SystemActor, 3, nil))
}

func (suite *CartRepositoryIntegrationTestSuite) TestTake_OnlyTouchesOneUser() {
	ctx := context.Background()
	tea := suite.item("Tea", order.Product{DishID: 1}, "3.00", 1)
	suite.Require().NoError(suite.repository.Put(ctx, kernel.SystemActor, 1, []order.LineItem{tea}))
	suite.Require().NoError(suite.repository.Put(ctx, kernel.SystemActor, 2, []order.LineItem{tea}))

	taken, err := suite.repository.Take(ctx, 1)
	suite.Require().NoError(err)
	suite.Equal([]order.LineItem{tea}, taken)

	mine, err := suite.repository.Items(ctx, 1)
	suite.Require().NoError(err)
	suite.Empty(mine)
	theirs, err := suite.repository.Items(ctx, 2)
	suite.Require().NoError(err)
	suite.Len(theirs, 1)
}

func (suite *CartRepositoryIntegrationTestSuite) TestTake_EmptyCart() {
	taken, err := suite.repository.Take(context.Background(), 1)

	suite.Require().NoError(err)
	suite.Empty(taken)
}

// Two submits racing on one cart: the second waits for the first and then
// finds the cart empty, so only one order can be built from it.
func (suite *CartRepositoryIntegrationTestSuite) TestTake_ConcurrentTakersGetCartOnce() {
	ctx := context.Background()
	tea := suite.item("Tea", order.Product{DishID: 1}, "3.00", 2)
	suite.Require().NoError(suite.repository.Put(ctx, kernel.SystemActor, 1, []order.LineItem{tea}))

	first := suite.db.Begin()
	suite.Require().NoError(first.Error)
	defer first.Rollback()

	taken, err := cartrepo.NewGormCartRepository(first).Take(ctx, 1)
	suite.Require().NoError(err)
	suite.Len(taken, 1)

	type result struct {
		items []order.LineItem
		err   error
	}
	done := make(chan result, 1)
	go func() {
		second := suite.db.Begin()
		if second.Error != nil {
			done <- result{err: second.Error}
			return
		}
		defer second.Rollback()
		items, err := cartrepo.NewGormCartRepository(second).Take(ctx, 1)
		if err == nil {
			err = second.Commit().Error
		}
		done <- result{items: items, err: err}
	}()

	select {
	case <-done:
		suite.FailNow("second take must wait for the first transaction")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(first.Commit().Error)

	select {
	case res := <-done:
		suite.Require().NoError(res.err)
		suite.Empty(res.items)
	case <-time.After(10 * time.Second):
		suite.FailNow("second take never returned")
	}
}

// A row added while a submit holds the cart is left for the next order.
func (suite *CartRepositoryIntegrationTestSuite) TestTake_KeepsRowsAddedAfterTheRead() {
	ctx := context.Background()
	tea := suite.item("Tea", order.Product{DishID: 1}, "3.00", 1)
	rice := suite.item("Rice", order.Product{DishID: 2}, "2.00", 1)
	suite.Require().NoError(suite.repository.Put(ctx, kernel.SystemActor, 1, []order.LineItem{tea}))

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	taken, err := cartrepo.NewGormCartRepository(tx).Take(ctx, 1)
	suite.Require().NoError(err)
	suite.Equal([]order.LineItem{tea}, taken)

	suite.Require().NoError(suite.repository.Put(ctx, kernel.SystemActor, 1, []order.LineItem{rice}))
	suite.Require().NoError(tx.Commit().Error)

	left, err := suite.repository.Items(ctx, 1)
	suite.Require().NoError(err)
	suite.Equal([]order.LineItem{rice}, left)
}

func (suite *CartRepositoryIntegrationTestSuite) item(name string, p order.Product, price string, qty int) order.LineItem {
	li, err := order.NewLineItem(name, p, kernel.MustParseMoney(price), qty)
	suite.Require().NoError(err)
	return li
}

func TestCartRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(CartRepositoryIntegrationTestSuite))
}
