package queries_test

import (
	"context"
	"testing"
	"time"

	"takeout/internal/adapters/out/postgres/orderrepo"
	"takeout/internal/adapters/out/postgres/pgtest"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), &orderrepo.OrderDTO{}, &orderrepo.LineItemDTO{})
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.repo = orderrepo.NewGormOrderRepository(db, nil)
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db, "order_line_items", "orders"))
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// save stores an order placed at orderTime by userID and walks it to status.
func (suite *QueriesIntegrationTestSuite) save(
	userID int64,
	phone string,
	orderTime time.Time,
	status order.Status,
) *order.Order {
	address, err := order.NewAddress("Han Meimei", phone, "Beijing Haidian 5 Zhongguancun St")
	suite.Require().NoError(err)
	noodles, err := order.NewLineItem("Beef Noodles", order.Product{DishID: 11, Flavor: "spicy"}, kernel.MustParseMoney("18.00"), 2)
	suite.Require().NoError(err)
	tea, err := order.NewLineItem("Tea", order.Product{SetmealID: 4}, kernel.MustParseMoney("3.50"), 1)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(), userID, address,
		[]order.LineItem{noodles, tea},
		order.Checkout{PayMethod: order.Alipay, PackagingFee: kernel.MustParseMoney("1.00")},
		orderTime,
	)
	suite.Require().NoError(err)

	if status != order.PendingPayment && status != order.Cancelled {
		suite.Require().NoError(o.ConfirmPayment(orderTime))
	}
	switch status {
	case order.Confirmed:
		suite.Require().NoError(o.Confirm())
	case order.DeliveryInProgress:
		suite.Require().NoError(o.Confirm())
		suite.Require().NoError(o.StartDelivery())
	case order.Cancelled:
		suite.Require().NoError(o.CancelByUser(orderTime))
	}
	suite.Require().Equal(status, o.Status())

	actor, err := kernel.UserActor(userID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), actor, o))
	return o
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderStatistics() {
	ctx := context.Background()
	suite.save(1, "13800000001", baseTime, order.ToBeConfirmed)
	suite.save(1, "13800000001", baseTime, order.ToBeConfirmed)
	suite.save(2, "13800000002", baseTime, order.Confirmed)
	suite.save(2, "13800000002", baseTime, order.DeliveryInProgress)
	suite.save(3, "13800000003", baseTime, order.PendingPayment)
	suite.save(3, "13800000003", baseTime, order.Cancelled)

	handler := queries.NewGetOrderStatisticsQueryHandler(suite.db)
	stats, err := handler.Handle(ctx, queries.NewGetOrderStatisticsQuery())

	suite.Require().NoError(err)
	suite.Equal(queries.OrderStatistics{ToBeConfirmed: 2, Confirmed: 1, DeliveryInProgress: 1}, stats)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderStatistics_Empty() {
	handler := queries.NewGetOrderStatisticsQueryHandler(suite.db)
	stats, err := handler.Handle(context.Background(), queries.NewGetOrderStatisticsQuery())

	suite.Require().NoError(err)
	suite.Equal(queries.OrderStatistics{}, stats)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderDetail() {
	ctx := context.Background()
	o := suite.save(1, "13800000001", baseTime, order.ToBeConfirmed)

	query, err := queries.NewGetOrderDetailQuery(o.ID())
	suite.Require().NoError(err)
	detail, err := queries.NewGetOrderDetailQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(o.ID().IsEqual(detail.ID))
	suite.Equal(o.Number().String(), detail.Number)
	suite.Equal(order.ToBeConfirmed, detail.Status)
	suite.Equal(order.Paid, detail.PayStatus)
	suite.Equal(order.Alipay, detail.PayMethod)
	suite.Equal("40.50", detail.Amount.String())
	suite.Equal("Han Meimei", detail.Consignee)
	suite.Equal("Beef Noodles*2;Tea*1;", detail.DishSummary)
	suite.Require().NotNil(detail.CheckoutTime)
	suite.True(baseTime.Equal(*detail.CheckoutTime))

	suite.Require().Len(detail.LineItems, 2)
	suite.Equal("Beef Noodles", detail.LineItems[0].Name)
	suite.Equal("spicy", detail.LineItems[0].Flavor)
	suite.Equal("36.00", detail.LineItems[0].Subtotal.String())
	suite.Require().NotNil(detail.LineItems[1].SetmealID)
	suite.Equal(int64(4), *detail.LineItems[1].SetmealID)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderDetail_NotFound() {
	query, _ := queries.NewGetOrderDetailQuery(kernel.NewUUID())

	_, err := queries.NewGetOrderDetailQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderDetail_OtherUser() {
	o := suite.save(1, "13800000001", baseTime, order.PendingPayment)
	query, _ := queries.NewGetUserOrderDetailQuery(o.ID(), 2)

	_, err := queries.NewGetOrderDetailQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestSearchOrders_PagesNewestFirst() {
	ctx := context.Background()
	var saved []*order.Order
	for i := range 5 {
		saved = append(saved, suite.save(1, "13800000001", baseTime.Add(time.Duration(i)*time.Minute), order.PendingPayment))
	}

	query, err := queries.NewSearchOrdersQuery(queries.OrderFilter{UserID: 1}, 2, 2)
	suite.Require().NoError(err)
	page, err := queries.NewSearchOrdersQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(int64(5), page.Total)
	suite.Require().Len(page.Orders, 2)
	suite.True(saved[2].ID().IsEqual(page.Orders[0].ID))
	suite.True(saved[1].ID().IsEqual(page.Orders[1].ID))
	suite.Equal("Beef Noodles*2;Tea*1;", page.Orders[0].DishSummary)
}

func (suite *QueriesIntegrationTestSuite) TestSearchOrders_Filters() {
	ctx := context.Background()
	target := suite.save(1, "13911112222", baseTime, order.Confirmed)
	suite.save(1, "13800000001", baseTime, order.PendingPayment)
	suite.save(2, "13911112222", baseTime.Add(-48*time.Hour), order.Confirmed)

	begin := baseTime.Add(-time.Hour)
	end := baseTime.Add(time.Hour)
	filters := []queries.OrderFilter{
		{Status: order.Confirmed, Phone: "1111", Begin: &begin},
		{Number: target.Number().String()[:12]},
		{UserID: 1, Status: order.Confirmed, End: &end},
	}

	handler := queries.NewSearchOrdersQueryHandler(suite.db)
	for _, filter := range filters {
		query, err := queries.NewSearchOrdersQuery(filter, 1, 10)
		suite.Require().NoError(err)

		page, err := handler.Handle(ctx, query)

		suite.Require().NoError(err)
		suite.Require().Len(page.Orders, 1, "%+v", filter)
		suite.True(target.ID().IsEqual(page.Orders[0].ID))
	}
}

func (suite *QueriesIntegrationTestSuite) TestSearchOrders_NoMatch() {
	query, _ := queries.NewSearchOrdersQuery(queries.OrderFilter{UserID: 42}, 1, 10)

	page, err := queries.NewSearchOrdersQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Zero(page.Total)
	suite.NotNil(page.Orders)
	suite.Empty(page.Orders)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
