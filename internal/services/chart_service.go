package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"smartspend/internal/config"
	"smartspend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart names served under /dashboard/charts/:name
const (
	ChartMonthly     = "monthly"
	ChartCategoryPie = "category-pie"
	ChartCategoryBar = "category-bar"
	ChartDaily       = "daily"
	ChartTimeline    = "timeline"
	ChartForecast    = "forecast"

	ChartFormatSVG = "svg"
	ChartFormatPNG = "png"
)

var (
	ErrUnknownChart           = errors.New("unknown chart")
	ErrNoChartData            = errors.New("no expenses to chart")
	ErrUnsupportedChartFormat = errors.New("unsupported chart format")
)

var (
	colorPrimary   = drawing.ColorFromHex("4f46e5")
	colorSecondary = drawing.ColorFromHex("3b82f6")
	colorProjected = drawing.ColorFromHex("ef4444")
	colorTrend     = drawing.ColorFromHex("94a3b8")
)

// ChartNames lists every chart RenderChart understands, in dashboard order
func ChartNames() []string {
	return []string{ChartMonthly, ChartCategoryPie, ChartCategoryBar, ChartDaily, ChartTimeline, ChartForecast}
}

func IsValidChart(name string) bool {
	for _, n := range ChartNames() {
		if n == name {
			return true
		}
	}
	return false
}

// renderable is satisfied by chart.Chart, chart.PieChart and chart.BarChart
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type chartService struct {
	dashboardService DashboardServiceInterface
	forecastService  ForecastServiceInterface
	currencySymbol   string
	forecastHorizon  int
	width            int
	height           int
}

func NewChartService(
	dashboardService DashboardServiceInterface,
	forecastService ForecastServiceInterface,
	appConfig *config.AppConfig,
) ChartServiceInterface {
	return &chartService{
		dashboardService: dashboardService,
		forecastService:  forecastService,
		currencySymbol:   appConfig.CurrencySymbol,
		forecastHorizon:  appConfig.ForecastHorizon,
		width:            appConfig.ChartWidth,
		height:           appConfig.ChartHeight,
	}
}

func (s *chartService) ContentType(format string) string {
	if format == ChartFormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (s *chartService) RenderChart(userID uuid.UUID, name, format string, w io.Writer) error {
	provider, err := rendererProvider(format)
	if err != nil {
		return err
	}

	if !IsValidChart(name) {
		return fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}

	var graph renderable
	if name == ChartForecast {
		forecast, err := s.forecastService.Forecast(userID, s.forecastHorizon)
		if err != nil {
			return err
		}
		graph = s.forecastChart(forecast)
	} else {
		dashboard, err := s.dashboardService.GetDashboard(userID)
		if err != nil {
			return err
		}
		if !dashboard.HasData {
			return ErrNoChartData
		}
		graph, err = s.dashboardChart(name, dashboard)
		if err != nil {
			return err
		}
	}

	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", name, err)
	}
	return nil
}

func rendererProvider(format string) (chart.RendererProvider, error) {
	switch format {
	case "", ChartFormatSVG:
		return chart.SVG, nil
	case ChartFormatPNG:
		return chart.PNG, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChartFormat, format)
	}
}

func (s *chartService) dashboardChart(name string, dashboard *models.Dashboard) (renderable, error) {
	switch name {
	case ChartMonthly:
		return s.monthlyChart(dashboard.Monthly), nil
	case ChartCategoryPie:
		return s.categoryPieChart(dashboard.Categories), nil
	case ChartCategoryBar:
		return s.categoryBarChart(dashboard.Categories), nil
	case ChartDaily:
		if len(dashboard.Daily) == 0 {
			return nil, ErrNoChartData
		}
		return s.dailyChart(dashboard.Daily), nil
	case ChartTimeline:
		return s.timelineChart(dashboard.Timeline), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
}

func (s *chartService) monthlyChart(monthly []models.MonthlyTotal) *chart.Chart {
	xs := make([]time.Time, len(monthly))
	ys := make([]float64, len(monthly))
	for i, m := range monthly {
		xs[i] = m.MonthStart
		ys[i] = m.TotalAmount.InexactFloat64()
	}
	xs, ys = padSinglePoint(xs, ys)

	graph := &chart.Chart{
		Title:  "Monthly Spending Trend",
		Width:  s.width,
		Height: s.height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006")},
		YAxis:  s.amountAxis(maxOf(ys)),
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total",
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(colorPrimary),
			},
		},
	}
	return graph
}

func (s *chartService) categoryPieChart(totals []models.CategoryTotal) *chart.PieChart {
	values := make([]chart.Value, len(totals))
	for i, t := range totals {
		values[i] = chart.Value{
			Value: t.TotalAmount.InexactFloat64(),
			Label: t.Category,
		}
	}

	return &chart.PieChart{
		Title:  "Spending by Category",
		Width:  s.width,
		Height: s.height,
		Values: values,
	}
}

func (s *chartService) categoryBarChart(totals []models.CategoryTotal) *chart.BarChart {
	bars := make([]chart.Value, len(totals))
	ys := make([]float64, len(totals))
	for i, t := range totals {
		ys[i] = t.TotalAmount.InexactFloat64()
		bars[i] = chart.Value{
			Value: ys[i],
			Label: t.Category,
			Style: chart.Style{FillColor: colorSecondary, StrokeColor: colorSecondary},
		}
	}

	return s.barChart("Category Breakdown", bars, maxOf(ys))
}

func (s *chartService) dailyChart(daily []models.DailyTotal) *chart.BarChart {
	bars := make([]chart.Value, len(daily))
	ys := make([]float64, len(daily))
	for i, d := range daily {
		ys[i] = d.TotalAmount.InexactFloat64()
		bars[i] = chart.Value{
			Value: ys[i],
			Label: d.Date.Format("02 Jan"),
			Style: chart.Style{FillColor: colorPrimary, StrokeColor: colorPrimary},
		}
	}

	return s.barChart("Daily Expenses (Last 30 Days)", bars, maxOf(ys))
}

func (s *chartService) barChart(title string, bars []chart.Value, maxValue float64) *chart.BarChart {
	barWidth := (s.width - 120) / (2 * len(bars))
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	return &chart.BarChart{
		Title:      title,
		Width:      s.width,
		Height:     s.height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		YAxis:      s.amountAxis(maxValue),
		Bars:       bars,
	}
}

func (s *chartService) timelineChart(points []models.CumulativePoint) *chart.Chart {
	xs := make([]time.Time, len(points))
	cumulative := make([]float64, len(points))
	amounts := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date
		cumulative[i] = p.Cumulative.InexactFloat64()
		amounts[i] = p.Amount.InexactFloat64()
	}
	xs, cumulative = padSinglePoint(xs, cumulative)
	if len(amounts) == 1 {
		amounts = append(amounts, amounts[0])
	}

	graph := &chart.Chart{
		Title:  "Cumulative Spending Timeline",
		Width:  s.width,
		Height: s.height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat(models.DisplayDateLayout)},
		YAxis:  s.amountAxis(maxOf(cumulative)),
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Cumulative Spending",
				XValues: xs,
				YValues: cumulative,
				Style:   lineStyle(colorPrimary),
			},
			chart.TimeSeries{
				Name:    "Individual Expenses",
				XValues: xs,
				YValues: amounts,
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: colorSecondary},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

func (s *chartService) forecastChart(forecast *models.Forecast) *chart.Chart {
	historyX := make([]time.Time, len(forecast.History))
	historyY := make([]float64, len(forecast.History))
	for i, m := range forecast.History {
		historyX[i] = m.MonthStart
		historyY[i] = m.TotalAmount.InexactFloat64()
	}

	// the projection starts at the last actual month so the two lines join
	last := len(historyX) - 1
	projectedX := []time.Time{historyX[last]}
	projectedY := []float64{historyY[last]}
	for _, p := range forecast.Predictions {
		projectedX = append(projectedX, p.MonthStart)
		projectedY = append(projectedY, p.PredictedAmount.InexactFloat64())
	}

	history := chart.TimeSeries{
		Name:    "Actual",
		XValues: historyX,
		YValues: historyY,
		Style:   lineStyle(colorPrimary),
	}

	graph := &chart.Chart{
		Title:  "Spending Forecast",
		Width:  s.width,
		Height: s.height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006")},
		YAxis:  s.amountAxis(maxOf(append(append([]float64{}, historyY...), projectedY...))),
		Series: []chart.Series{
			history,
			chart.TimeSeries{
				Name:    "Forecast",
				XValues: projectedX,
				YValues: projectedY,
				Style: chart.Style{
					StrokeColor:     colorProjected,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
					DotColor:        colorProjected,
					DotWidth:        3,
				},
			},
			&chart.LinearRegressionSeries{
				Name:        "Trend",
				InnerSeries: history,
				Style:       chart.Style{StrokeColor: colorTrend, StrokeWidth: 1},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

func (s *chartService) amountAxis(maxValue float64) chart.YAxis {
	if maxValue <= 0 {
		maxValue = 1
	}
	return chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return models.FormatCurrency(s.currencySymbol, decimal.NewFromFloat(f).Round(0))
			}
			return ""
		},
	}
}

func lineStyle(color drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: color,
		StrokeWidth: 2,
		DotColor:    color,
		DotWidth:    3,
	}
}

// padSinglePoint duplicates a lone point one day later; go-chart cannot derive an x range from one value.
func padSinglePoint(xs []time.Time, ys []float64) ([]time.Time, []float64) {
	if len(xs) != 1 {
		return xs, ys
	}
	return append(xs, xs[0].Add(24*time.Hour)), append(ys, ys[0])
}

func maxOf(values []float64) float64 {
	var largest float64
	for _, v := range values {
		if v > largest {
			largest = v
		}
	}
	return largest
}
