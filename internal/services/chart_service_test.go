package services

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"smartspend/internal/config"
	"smartspend/internal/models"
	"smartspend/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ChartServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	dashboard *service_mocks.MockDashboardServiceInterface
	forecast  *service_mocks.MockForecastServiceInterface
	service   ChartServiceInterface
	userID    uuid.UUID
}

func (s *ChartServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.dashboard = service_mocks.NewMockDashboardServiceInterface(s.ctrl)
	s.forecast = service_mocks.NewMockForecastServiceInterface(s.ctrl)
	s.service = NewChartService(s.dashboard, s.forecast, &config.AppConfig{
		CurrencySymbol:  "₹",
		ForecastHorizon: 3,
		ChartWidth:      640,
		ChartHeight:     360,
	})
	s.userID = uuid.New()
}

func (s *ChartServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestChartServiceSuite(t *testing.T) {
	suite.Run(t, new(ChartServiceTestSuite))
}

func (s *ChartServiceTestSuite) TestRenderDashboardCharts() {
	dashboard := BuildDashboard(sampleExpenses(), dashboardNow)

	for _, name := range []string{ChartMonthly, ChartCategoryPie, ChartCategoryBar, ChartDaily, ChartTimeline} {
		s.Run(name, func() {
			s.dashboard.EXPECT().GetDashboard(s.userID).Return(dashboard, nil)

			var buf bytes.Buffer
			s.Require().NoError(s.service.RenderChart(s.userID, name, ChartFormatSVG, &buf))
			s.Contains(buf.String(), "<svg")
		})
	}
}

func (s *ChartServiceTestSuite) TestRenderSingleExpense() {
	dashboard := BuildDashboard([]models.Expense{expenseOn(day(2024, 6, 20), models.CategoryFood, "10")}, dashboardNow)

	for _, name := range []string{ChartMonthly, ChartDaily, ChartTimeline, ChartCategoryBar} {
		s.Run(name, func() {
			s.dashboard.EXPECT().GetDashboard(s.userID).Return(dashboard, nil)

			var buf bytes.Buffer
			s.NoError(s.service.RenderChart(s.userID, name, "", &buf))
		})
	}
}

func (s *ChartServiceTestSuite) TestRenderPNG() {
	s.dashboard.EXPECT().GetDashboard(s.userID).Return(BuildDashboard(sampleExpenses(), dashboardNow), nil)

	var buf bytes.Buffer
	s.Require().NoError(s.service.RenderChart(s.userID, ChartMonthly, ChartFormatPNG, &buf))
	s.Equal([]byte("\x89PNG"), buf.Bytes()[:4])
	s.Equal("image/png", s.service.ContentType(ChartFormatPNG))
	s.Equal("image/svg+xml", s.service.ContentType(ChartFormatSVG))
}

func (s *ChartServiceTestSuite) TestRenderForecast() {
	forecast, err := FitForecast([]models.MonthlyTotal{
		monthTotal(2024, time.January, "100"),
		monthTotal(2024, time.February, "250"),
		monthTotal(2024, time.March, "180"),
	}, 3, dashboardNow)
	s.Require().NoError(err)
	s.forecast.EXPECT().Forecast(s.userID, 3).Return(forecast, nil)

	var buf bytes.Buffer
	s.Require().NoError(s.service.RenderChart(s.userID, ChartForecast, ChartFormatSVG, &buf))
	s.Contains(buf.String(), "Forecast")
}

func (s *ChartServiceTestSuite) TestRenderForecast_InsufficientData() {
	s.forecast.EXPECT().Forecast(s.userID, 3).Return(nil, ErrInsufficientForecastData)

	err := s.service.RenderChart(s.userID, ChartForecast, ChartFormatSVG, &bytes.Buffer{})
	s.ErrorIs(err, ErrInsufficientForecastData)
}

func (s *ChartServiceTestSuite) TestRender_NoData() {
	s.dashboard.EXPECT().GetDashboard(s.userID).Return(BuildDashboard(nil, dashboardNow), nil)

	err := s.service.RenderChart(s.userID, ChartCategoryPie, ChartFormatSVG, &bytes.Buffer{})
	s.ErrorIs(err, ErrNoChartData)
}

func (s *ChartServiceTestSuite) TestRender_NoRecentExpenses() {
	old := BuildDashboard([]models.Expense{expenseOn(day(2023, 1, 1), models.CategoryFood, "10")}, dashboardNow)
	s.dashboard.EXPECT().GetDashboard(s.userID).Return(old, nil)

	err := s.service.RenderChart(s.userID, ChartDaily, ChartFormatSVG, &bytes.Buffer{})
	s.ErrorIs(err, ErrNoChartData)
}

func (s *ChartServiceTestSuite) TestRender_UnknownChartAndFormat() {
	s.ErrorIs(s.service.RenderChart(s.userID, "radar", ChartFormatSVG, &bytes.Buffer{}), ErrUnknownChart)
	s.ErrorIs(s.service.RenderChart(s.userID, ChartMonthly, "gif", &bytes.Buffer{}), ErrUnsupportedChartFormat)
}

func (s *ChartServiceTestSuite) TestRender_DashboardError() {
	s.dashboard.EXPECT().GetDashboard(s.userID).Return(nil, errors.New("db down"))

	s.Error(s.service.RenderChart(s.userID, ChartMonthly, ChartFormatSVG, &bytes.Buffer{}))
}

func (s *ChartServiceTestSuite) TestChartNames() {
	s.Len(ChartNames(), 6)
	s.True(IsValidChart(ChartTimeline))
	s.False(IsValidChart("heatmap"))
}
